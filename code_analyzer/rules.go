package code_analyzer

import (
	"strconv"
	"strings"

	"github.com/morler/scaff/code_analyzer/models"
	sitter "github.com/smacker/go-tree-sitter"
)

// nameFunc pulls the declaration names out of a matched node.
type nameFunc func(node *sitter.Node, source []byte) []string

// extractionRule maps one node kind of one language to a category.
type extractionRule struct {
	Kind     string
	Category models.Category
	Names    nameFunc
	// Dedupe skips names already recorded under Category for the current file.
	Dedupe bool
}

var javascriptRules = []extractionRule{
	{Kind: "class_declaration", Category: models.CategoryCompositeDeclaration, Names: fieldText("name")},
	{Kind: "function_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
	{Kind: "generator_function_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
	{Kind: "method_definition", Category: models.CategoryCallable, Names: fieldText("name")},
}

var typescriptRules = append(append([]extractionRule{}, javascriptRules...),
	extractionRule{Kind: "abstract_class_declaration", Category: models.CategoryCompositeDeclaration, Names: fieldText("name")},
	extractionRule{Kind: "interface_declaration", Category: models.CategoryCompositeDeclaration, Names: prefixedFieldText("interface ", "name")},
	extractionRule{Kind: "type_alias_declaration", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
	extractionRule{Kind: "enum_declaration", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
	extractionRule{Kind: "function_signature", Category: models.CategoryCallable, Names: fieldText("name")},
	extractionRule{Kind: "method_signature", Category: models.CategoryCallable, Names: fieldText("name")},
	extractionRule{Kind: "abstract_method_signature", Category: models.CategoryCallable, Names: fieldText("name")},
)

// languageRules is the strategy table consulted by the extractor.
var languageRules = map[string][]extractionRule{
	"rust": {
		{Kind: "struct_item", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
		{Kind: "enum_item", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
		{Kind: "function_item", Category: models.CategoryCallable, Names: fieldText("name")},
		{Kind: "function_signature_item", Category: models.CategoryCallable, Names: fieldText("name")},
		{Kind: "impl_item", Category: models.CategoryImplementationBlock, Names: fieldText("type")},
		{Kind: "trait_item", Category: models.CategoryCompositeDeclaration, Names: prefixedFieldText("interface ", "name")},
	},
	"javascript": javascriptRules,
	"typescript": typescriptRules,
	"python": {
		{Kind: "class_definition", Category: models.CategoryCompositeDeclaration, Names: fieldText("name")},
		{Kind: "function_definition", Category: models.CategoryCallable, Names: fieldText("name")},
	},
	"java": {
		{Kind: "class_declaration", Category: models.CategoryCompositeDeclaration, Names: fieldText("name")},
		{Kind: "interface_declaration", Category: models.CategoryCompositeDeclaration, Names: prefixedFieldText("interface ", "name")},
		{Kind: "method_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
		{Kind: "constructor_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
		{Kind: "enum_declaration", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
		{Kind: "record_declaration", Category: models.CategoryTypeDeclaration, Names: fieldText("name")},
	},
	"go": {
		{Kind: "type_declaration", Category: models.CategoryTypeDeclaration, Names: goTypeSpecNames},
		{Kind: "function_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
		{Kind: "method_declaration", Category: models.CategoryCallable, Names: fieldText("name")},
	},
	"html": {
		{Kind: "element", Category: models.CategoryCompositeDeclaration, Names: htmlTagName, Dedupe: true},
		{Kind: "script_element", Category: models.CategoryCompositeDeclaration, Names: htmlTagName, Dedupe: true},
		{Kind: "style_element", Category: models.CategoryCompositeDeclaration, Names: htmlTagName, Dedupe: true},
	},
	"css": {
		{Kind: "rule_set", Category: models.CategoryCompositeDeclaration, Names: cssSelectors, Dedupe: true},
	},
	"json": {
		{Kind: "pair", Category: models.CategoryTypeDeclaration, Names: jsonKey, Dedupe: true},
	},
}

// rulesByKind indexes a language's rules by node kind.
func rulesByKind(languageID string) map[string]extractionRule {
	rules := languageRules[languageID]
	index := make(map[string]extractionRule, len(rules))
	for _, r := range rules {
		index[r.Kind] = r
	}
	return index
}

func fieldText(field string) nameFunc {
	return func(node *sitter.Node, source []byte) []string {
		child := node.ChildByFieldName(field)
		if child == nil {
			return nil
		}
		name := strings.TrimSpace(child.Content(source))
		if name == "" {
			return nil
		}
		return []string{name}
	}
}

func prefixedFieldText(prefix, field string) nameFunc {
	inner := fieldText(field)
	return func(node *sitter.Node, source []byte) []string {
		names := inner(node, source)
		for i := range names {
			names[i] = prefix + names[i]
		}
		return names
	}
}

// goTypeSpecNames reports each spec of a grouped `type ( ... )` declaration.
func goTypeSpecNames(node *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		spec := node.NamedChild(i)
		if spec == nil {
			continue
		}
		if spec.Type() != "type_spec" && spec.Type() != "type_alias" {
			continue
		}
		names = append(names, fieldText("name")(spec, source)...)
	}
	return names
}

func htmlTagName(node *sitter.Node, source []byte) []string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		tag := node.NamedChild(i)
		if tag == nil || (tag.Type() != "start_tag" && tag.Type() != "self_closing_tag") {
			continue
		}
		for j := 0; j < int(tag.NamedChildCount()); j++ {
			part := tag.NamedChild(j)
			if part != nil && part.Type() == "tag_name" {
				return []string{part.Content(source)}
			}
		}
	}
	return nil
}

func cssSelectors(node *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() != "selectors" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			part := child.NamedChild(j)
			if part == nil || part.IsExtra() || part.Type() == "comment" {
				continue
			}
			selector := strings.TrimSpace(part.Content(source))
			if selector != "" {
				names = append(names, selector)
			}
		}
	}
	return names
}

func jsonKey(node *sitter.Node, source []byte) []string {
	key := node.ChildByFieldName("key")
	if key == nil {
		return nil
	}
	text := strings.TrimSpace(key.Content(source))
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		if unquoted, err := strconv.Unquote(text); err == nil && text[0] == '"' {
			text = unquoted
		} else {
			text = text[1 : len(text)-1]
		}
	}
	if text == "" {
		return nil
	}
	return []string{text}
}
