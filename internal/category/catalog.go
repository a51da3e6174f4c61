package category

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	catalogReadErrorTemplateConstant        = "failed to read category catalog: %w"
	catalogParseErrorTemplateConstant       = "failed to parse category catalog: %w"
	catalogDecodeErrorTemplateConstant      = "failed to decode category catalog settings: %w"
	catalogPathRequiredMessageConstant      = "category catalog path must be provided"
	catalogEmptyMessageConstant             = "category catalog must define at least one common code"
	catalogBlankCodeMessageConstant         = "category codes must be non-empty"
	catalogDuplicateCodeTemplateConstant    = "category catalog defines code %s more than once"
	catalogCustomCodeMissingMessageConstant = "category catalog must define the custom selector code"
	catalogCustomCollisionTemplateConstant  = "custom selector code %s is also listed as a common code"
	catalogReservedOrderTemplateConstant    = "reserved range %d..%d is empty"
	catalogReservedOverlapTemplateConstant  = "code %s falls inside the reserved range %d..%d"
	customCodeBlankMessageConstant          = "custom resource code must be non-empty"
	customCodeNotAllowedTemplateConstant    = "code %s not allowed to be used as a custom resource code"
	catalogInvalidTemplateConstant          = "invalid category catalog: %w"
	mapstructureTagNameConstant             = "mapstructure"
)

//go:embed default_catalog.yaml
var defaultCatalogContent []byte

// ErrCustomCodeNotAllowed reports a custom code that collides with a common, selector or reserved code.
var ErrCustomCodeNotAllowed = errors.New("custom resource code not allowed")

// Category is one selectable resource category.
type Category struct {
	Code        string `yaml:"code" mapstructure:"code"`
	Description string `yaml:"description" mapstructure:"description"`
}

// ReservedRange is an inclusive range of numeric codes withheld from custom use.
type ReservedRange struct {
	First int `yaml:"first" mapstructure:"first"`
	Last  int `yaml:"last" mapstructure:"last"`
}

// Contains reports whether code is the canonical decimal form of a number in the range.
func (reservedRange ReservedRange) Contains(code string) bool {
	numericCode, conversionError := strconv.Atoi(code)
	if conversionError != nil || strconv.Itoa(numericCode) != code {
		return false
	}
	return numericCode >= reservedRange.First && numericCode <= reservedRange.Last
}

type catalogDocument struct {
	Common   []Category    `yaml:"common" mapstructure:"common"`
	Custom   Category      `yaml:"custom" mapstructure:"custom"`
	Reserved ReservedRange `yaml:"reserved" mapstructure:"reserved"`
}

// Catalog is the immutable table of category codes.
type Catalog struct {
	common   []Category
	custom   Category
	reserved ReservedRange
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalog(defaultCatalogContent)
}

// LoadCatalog reads a YAML catalog from filePath.
func LoadCatalog(filePath string) (Catalog, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Catalog{}, errors.New(catalogPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Catalog{}, fmt.Errorf(catalogReadErrorTemplateConstant, readError)
	}

	return ParseCatalog(contentBytes)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(contentBytes []byte) (Catalog, error) {
	var document catalogDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Catalog{}, fmt.Errorf(catalogParseErrorTemplateConstant, unmarshalError)
	}
	return newCatalog(document)
}

// CatalogFromSettings decodes a catalog embedded in the application configuration.
// Numeric codes are accepted and converted to their decimal text.
func CatalogFromSettings(settings map[string]any) (Catalog, error) {
	var document catalogDocument
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
		Result:           &document,
	})
	if decoderError != nil {
		return Catalog{}, fmt.Errorf(catalogDecodeErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(settings); decodeError != nil {
		return Catalog{}, fmt.Errorf(catalogDecodeErrorTemplateConstant, decodeError)
	}
	return newCatalog(document)
}

// Validate requires a non-blank code.
func (category Category) Validate() error {
	return validation.ValidateStruct(&category,
		validation.Field(&category.Code, validation.By(requireNonBlank)),
	)
}

func (document catalogDocument) validate() error {
	return validation.ValidateStruct(&document,
		validation.Field(&document.Common, validation.Required.Error(catalogEmptyMessageConstant)),
		validation.Field(&document.Custom, validation.By(func(value any) error {
			custom, _ := value.(Category)
			if len(strings.TrimSpace(custom.Code)) == 0 {
				return errors.New(catalogCustomCodeMissingMessageConstant)
			}
			return nil
		})),
	)
}

func requireNonBlank(value any) error {
	text, _ := value.(string)
	if len(strings.TrimSpace(text)) == 0 {
		return errors.New(catalogBlankCodeMessageConstant)
	}
	return nil
}

func newCatalog(document catalogDocument) (Catalog, error) {
	if validationError := document.validate(); validationError != nil {
		return Catalog{}, fmt.Errorf(catalogInvalidTemplateConstant, validationError)
	}

	customCode := strings.TrimSpace(document.Custom.Code)

	if document.Reserved.First > document.Reserved.Last {
		return Catalog{}, fmt.Errorf(catalogReservedOrderTemplateConstant, document.Reserved.First, document.Reserved.Last)
	}

	seenCodes := make(map[string]struct{}, len(document.Common))
	common := make([]Category, 0, len(document.Common))
	for _, candidate := range document.Common {
		code := strings.TrimSpace(candidate.Code)
		if _, duplicate := seenCodes[code]; duplicate {
			return Catalog{}, fmt.Errorf(catalogDuplicateCodeTemplateConstant, code)
		}
		if code == customCode {
			return Catalog{}, fmt.Errorf(catalogCustomCollisionTemplateConstant, code)
		}
		if document.Reserved.Contains(code) {
			return Catalog{}, fmt.Errorf(catalogReservedOverlapTemplateConstant, code, document.Reserved.First, document.Reserved.Last)
		}
		seenCodes[code] = struct{}{}
		common = append(common, Category{Code: code, Description: strings.TrimSpace(candidate.Description)})
	}

	if document.Reserved.Contains(customCode) {
		return Catalog{}, fmt.Errorf(catalogReservedOverlapTemplateConstant, customCode, document.Reserved.First, document.Reserved.Last)
	}

	return Catalog{
		common:   common,
		custom:   Category{Code: customCode, Description: strings.TrimSpace(document.Custom.Description)},
		reserved: document.Reserved,
	}, nil
}

// Menu lists the common categories followed by the custom selector, in display order.
func (catalog Catalog) Menu() []Category {
	menu := make([]Category, 0, len(catalog.common)+1)
	menu = append(menu, catalog.common...)
	return append(menu, catalog.custom)
}

// Lookup returns the common category registered under code.
func (catalog Catalog) Lookup(code string) (Category, bool) {
	for _, candidate := range catalog.common {
		if candidate.Code == code {
			return candidate, true
		}
	}
	return Category{}, false
}

// IsCustomSelector reports whether code requests a custom category.
func (catalog Catalog) IsCustomSelector(code string) bool {
	return code == catalog.custom.Code
}

// IsReserved reports whether code lies in the reserved range.
func (catalog Catalog) IsReserved(code string) bool {
	return catalog.reserved.Contains(code)
}

// Reserved returns the reserved code range.
func (catalog Catalog) Reserved() ReservedRange {
	return catalog.reserved
}

// ValidateCustomCode rejects custom codes that collide with catalog codes.
func (catalog Catalog) ValidateCustomCode(code string) error {
	if len(strings.TrimSpace(code)) == 0 {
		return fmt.Errorf("%w: %s", ErrCustomCodeNotAllowed, customCodeBlankMessageConstant)
	}
	_, isCommon := catalog.Lookup(code)
	if isCommon || catalog.IsCustomSelector(code) || catalog.IsReserved(code) {
		return fmt.Errorf("%w: "+customCodeNotAllowedTemplateConstant, ErrCustomCodeNotAllowed, code)
	}
	return nil
}
