package questiongen

// ScopeAll places no restriction on the grammar points covered.
const ScopeAll = "すべて"

// GrammarScopes are the grammar focus areas offered on the setup screen.
var GrammarScopes = []string{
	ScopeAll,
	"使役形・受身形",
	"接続詞",
	"依頼・許可・禁止",
	"助詞",
	"複合動詞",
	"尊敬語・謙譲語",
}

// QuestionCounts are the batch sizes offered on the setup screen.
var QuestionCounts = []int{5, 10, 15, 20}

// normalizeScope maps the "all" scope to no scope.
func normalizeScope(s string) string {
	if s == ScopeAll {
		return ""
	}
	return s
}
