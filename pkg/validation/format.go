// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/RakeemAI/Rakeem/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateLanguage checks if the output language is supported.
func ValidateLanguage(lang string) error {
	if lang != constants.LanguageEnglish && lang != constants.LanguageArabic {
		return fmt.Errorf("expected output language of %s or %s, got %s",
			constants.LanguageEnglish, constants.LanguageArabic, lang)
	}
	return nil
}
