package jsonschema

// Keyword names a JSON Schema keyword understood by the compiler.
type Keyword string

const (
	KeywordType                 Keyword = "type"
	KeywordProperties           Keyword = "properties"
	KeywordRequired             Keyword = "required"
	KeywordItems                Keyword = "items"
	KeywordAdditionalItems      Keyword = "additionalItems"
	KeywordContains             Keyword = "contains"
	KeywordDefault              Keyword = "default"
	KeywordConst                Keyword = "const"
	KeywordEnum                 Keyword = "enum"
	KeywordMinLength            Keyword = "minLength"
	KeywordMaxLength            Keyword = "maxLength"
	KeywordMinItems             Keyword = "minItems"
	KeywordMaxItems             Keyword = "maxItems"
	KeywordMinimum              Keyword = "minimum"
	KeywordMaximum              Keyword = "maximum"
	KeywordExclusiveMinimum     Keyword = "exclusiveMinimum"
	KeywordExclusiveMaximum     Keyword = "exclusiveMaximum"
	KeywordMultipleOf           Keyword = "multipleOf"
	KeywordPattern              Keyword = "pattern"
	KeywordUniqueItems          Keyword = "uniqueItems"
	KeywordMinProperties        Keyword = "minProperties"
	KeywordMaxProperties        Keyword = "maxProperties"
	KeywordPatternProperties    Keyword = "patternProperties"
	KeywordAdditionalProperties Keyword = "additionalProperties"
	KeywordDependencies         Keyword = "dependencies"
	KeywordPropertyNames        Keyword = "propertyNames"
	KeywordAllOf                Keyword = "allOf"
	KeywordAnyOf                Keyword = "anyOf"
	KeywordOneOf                Keyword = "oneOf"
	KeywordNot                  Keyword = "not"
	KeywordTitle                Keyword = "title"
	KeywordDescription          Keyword = "description"
	KeywordFormat               Keyword = "format"
)

// allKeywords fixes the order Keywords reports present keywords in.
var allKeywords = []Keyword{
	KeywordType,
	KeywordProperties,
	KeywordRequired,
	KeywordItems,
	KeywordAdditionalItems,
	KeywordContains,
	KeywordDefault,
	KeywordConst,
	KeywordEnum,
	KeywordMinLength,
	KeywordMaxLength,
	KeywordMinItems,
	KeywordMaxItems,
	KeywordMinimum,
	KeywordMaximum,
	KeywordExclusiveMinimum,
	KeywordExclusiveMaximum,
	KeywordMultipleOf,
	KeywordPattern,
	KeywordUniqueItems,
	KeywordMinProperties,
	KeywordMaxProperties,
	KeywordPatternProperties,
	KeywordAdditionalProperties,
	KeywordDependencies,
	KeywordPropertyNames,
	KeywordAllOf,
	KeywordAnyOf,
	KeywordOneOf,
	KeywordNot,
	KeywordTitle,
	KeywordDescription,
	KeywordFormat,
}
