package metrics

import "testing"

func TestQueryOperation(t *testing.T) {
	cases := map[string]string{
		"SELECT id FROM users":                  "select",
		"\n\t\tINSERT INTO running_sessions ...": "insert",
		"WITH x AS (SELECT 1) SELECT * FROM x":  "cte",
		"   ":                                   "unknown",
	}
	for in, want := range cases {
		if got := QueryOperation(in); got != want {
			t.Errorf("QueryOperation(%q) = %q, want %q", in, got, want)
		}
	}
}
