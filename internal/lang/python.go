package lang

import (
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		Keyword:    "class",
		Terminator: ':',
		Separator:  ',',
		lang:       python.GetLanguage(),
	}
}
