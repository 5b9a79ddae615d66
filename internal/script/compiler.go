// File: internal/script/compiler.go
package script

import (
	"fmt"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
)

// Compile turns an operation preset into a self-contained page script. The
// result is a single expression whose evaluated value is a status string (or
// the extracted text for extract_text presets). Compile is pure: it never
// touches the page, and it escapes every interpolated value so the generated
// script is syntactically valid regardless of the preset's content.
//
// An invalid selector is not detected here; it surfaces as an execution
// failure when the script is evaluated against the page.
func Compile(p schemas.OperationPreset) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	switch p.Type {
	case schemas.PresetNavigate:
		return fmt.Sprintf(`window.location.href = '%s';`, EncodeNavigationTarget(p.Value)), nil

	case schemas.PresetClick:
		return fmt.Sprintf(
			`(function(){var el=document.querySelector('%s');if(!el){return 'not found';}el.click();return 'clicked';})();`,
			EscapeLiteral(p.Selector)), nil

	case schemas.PresetTypeText:
		return fmt.Sprintf(
			`(function(){var el=document.querySelector('%s');if(!el){return 'not found';}el.focus();el.value='%s';el.dispatchEvent(new Event('input',{bubbles:true}));return 'typed';})();`,
			EscapeLiteral(p.Selector), EscapeLiteral(p.Value)), nil

	case schemas.PresetExtractText:
		return fmt.Sprintf(
			`(function(){var el=document.querySelector('%s');if(!el){return '';}return el.innerText||el.textContent||'';})();`,
			EscapeLiteral(p.Selector)), nil
	}

	return "", fmt.Errorf("unsupported preset type %q", p.Type)
}
