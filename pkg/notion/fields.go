package notion

import (
	"strings"

	"github.com/jomei/notionapi"
)

// Fields flattens a page's properties into plain values keyed by property
// name. Text-like properties become strings, multi-selects become []string,
// numbers become float64 and checkboxes bool. Unsupported property types are
// omitted.
func Fields(p notionapi.Page) map[string]any {
	out := make(map[string]any, len(p.Properties))
	for name, prop := range p.Properties {
		switch v := prop.(type) {
		case *notionapi.TitleProperty:
			out[name] = plainText(v.Title)
		case *notionapi.RichTextProperty:
			out[name] = plainText(v.RichText)
		case *notionapi.SelectProperty:
			out[name] = v.Select.Name
		case *notionapi.StatusProperty:
			out[name] = v.Status.Name
		case *notionapi.MultiSelectProperty:
			names := make([]string, 0, len(v.MultiSelect))
			for _, opt := range v.MultiSelect {
				names = append(names, opt.Name)
			}
			out[name] = names
		case *notionapi.URLProperty:
			out[name] = v.URL
		case *notionapi.PhoneNumberProperty:
			out[name] = v.PhoneNumber
		case *notionapi.EmailProperty:
			out[name] = v.Email
		case *notionapi.NumberProperty:
			out[name] = v.Number
		case *notionapi.CheckboxProperty:
			out[name] = v.Checkbox
		}
	}
	return out
}

// plainText concatenates the plain_text values from a slice of RichText.
func plainText(rts []notionapi.RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.PlainText)
	}
	return b.String()
}
