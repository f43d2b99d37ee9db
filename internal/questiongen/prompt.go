package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/kotoba/internal/quiz"
)

const systemPrompt = `あなたは日本語を外国人に教えるネイティブの日本語教師です。
指定されたJLPTレベルと問題数に応じて、%[1]sに関する多肢選択問題を生成してください。
まず、設問の核となる、文法的に正しく意味が通じる、自然な日本語の例文を作成します。
次に、その文からテストしたい%[1]sの部分を抜き出して（　　）で示し、それを正解の選択肢とします。
以下の要件を厳守してください：
- 各問題には4つの選択肢を設けること。
- 正解の順番はランダムにすること。
- 選択肢は互いに重複しないこと。
- 正解は1つだけであること。
- 不正解の選択肢は、大人の日本語学習者が間違いやすい、紛らわしい選択肢にしてください。
- 各問題の解説では、なぜその答えが%[1]s・意味的により良い選択なのかを説明し、他の選択肢がなぜ不正解なのかも簡潔に説明してください。`

func buildSystemPrompt(section quiz.Section) string {
	return fmt.Sprintf(systemPrompt, sectionNoun(section))
}

func sectionNoun(s quiz.Section) string {
	if s == quiz.SectionVocabulary {
		return "語彙"
	}
	return "文法"
}

// buildUserPrompt asks for req.Count questions, optionally focused on a
// scope and steering away from prompts the learner has already seen.
func buildUserPrompt(req Request, avoid []string, maxAvoid int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "JLPT %sレベルの%s問題を%d問生成してください。",
		req.Topic.Level.Label(), sectionNoun(req.Topic.Section), req.Count)
	if scope := normalizeScope(req.Scope); scope != "" {
		fmt.Fprintf(&b, "特に「%s」に関する%sに焦点を当ててください。", scope, sectionNoun(req.Topic.Section))
	}

	if len(avoid) > 0 {
		if maxAvoid > 0 && len(avoid) > maxAvoid {
			avoid = avoid[len(avoid)-maxAvoid:]
		}
		b.WriteString("\n\n次の問題文とは異なる問題にしてください：\n")
		for i, p := range avoid {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
