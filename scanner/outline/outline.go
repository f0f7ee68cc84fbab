package outline

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Symbol is a named declaration found in a source file.
type Symbol struct {
	Kind string
	Name string
}

func (s Symbol) String() string {
	return fmt.Sprintf("%s: %s", s.Kind, s.Name)
}

type grammar struct {
	language *sitter.Language
	query    string
}

// Capture names double as symbol kinds. Queries match module-level declarations
// and the methods declared directly in those types.
var grammars = map[string]grammar{
	".go": {golang.GetLanguage(), `
(source_file (function_declaration name: (identifier) @function))
(source_file (method_declaration name: (field_identifier) @method))
(source_file (type_declaration (type_spec name: (type_identifier) @type)))`},
	".py": {python.GetLanguage(), `
(module (class_definition name: (identifier) @class))
(module (decorated_definition (class_definition name: (identifier) @class)))
(module (function_definition name: (identifier) @function))
(module (decorated_definition (function_definition name: (identifier) @function)))
(module (class_definition (block (function_definition name: (identifier) @method))))
(module (class_definition (block (decorated_definition (function_definition name: (identifier) @method)))))
(module (decorated_definition (class_definition (block (function_definition name: (identifier) @method)))))`},
	".js":  {javascript.GetLanguage(), jsQuery},
	".jsx": {javascript.GetLanguage(), jsQuery},
	".mjs": {javascript.GetLanguage(), jsQuery},
	".ts":  {typescript.GetLanguage(), tsQuery},
	".tsx": {tsx.GetLanguage(), tsQuery},
	".java": {java.GetLanguage(), `
(program (class_declaration name: (identifier) @class))
(program (interface_declaration name: (identifier) @interface))
(program (class_declaration (class_body (method_declaration name: (identifier) @method))))`},
	".cs": {csharp.GetLanguage(), `
(compilation_unit (class_declaration name: (identifier) @class))
(compilation_unit (interface_declaration name: (identifier) @interface))
(compilation_unit (class_declaration (declaration_list (method_declaration name: (identifier) @method))))
(namespace_declaration (declaration_list (class_declaration name: (identifier) @class)))
(namespace_declaration (declaration_list (interface_declaration name: (identifier) @interface)))
(namespace_declaration (declaration_list (class_declaration (declaration_list (method_declaration name: (identifier) @method)))))`},
}

const jsQuery = `
(program (function_declaration name: (identifier) @function))
(program (export_statement (function_declaration name: (identifier) @function)))
(program (class_declaration name: (identifier) @class))
(program (export_statement (class_declaration name: (identifier) @class)))
(program (class_declaration (class_body (method_definition name: (property_identifier) @method))))
(program (export_statement (class_declaration (class_body (method_definition name: (property_identifier) @method)))))`

const tsQuery = `
(program (function_declaration name: (identifier) @function))
(program (export_statement (function_declaration name: (identifier) @function)))
(program (class_declaration name: (type_identifier) @class))
(program (export_statement (class_declaration name: (type_identifier) @class)))
(program (interface_declaration name: (type_identifier) @interface))
(program (export_statement (interface_declaration name: (type_identifier) @interface)))
(program (class_declaration (class_body (method_definition name: (property_identifier) @method))))
(program (export_statement (class_declaration (class_body (method_definition name: (property_identifier) @method)))))`

// Supported reports whether a file can be outlined.
func Supported(filePath string) bool {
	_, ok := grammars[strings.ToLower(path.Ext(filePath))]
	return ok
}

// Extract parses source and returns its declarations in document order.
func Extract(ctx context.Context, filePath string, source []byte) ([]Symbol, error) {
	g, ok := grammars[strings.ToLower(path.Ext(filePath))]
	if !ok {
		return nil, fmt.Errorf("no grammar for %s", filePath)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	query, err := sitter.NewQuery([]byte(g.query), g.language)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query: %w", err)
	}

	cursor := sitter.NewQueryCursor()
	cursor.Exec(query, tree.RootNode())

	// Matches of different patterns interleave, so order by position in the file.
	type located struct {
		start  uint32
		symbol Symbol
	}

	var found []located
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			found = append(found, located{
				start: capture.Node.StartByte(),
				symbol: Symbol{
					Kind: query.CaptureNameForId(capture.Index),
					Name: capture.Node.Content(source),
				},
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	symbols := make([]Symbol, 0, len(found))
	for _, f := range found {
		symbols = append(symbols, f.symbol)
	}
	return symbols, nil
}
