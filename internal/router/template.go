package router

// DefaultTemplateName is reserved for the fallback template.
const DefaultTemplateName = "default"

// Template defaults applied when a field is left empty.
const (
	DefaultFolder   = "Inbox/Clips"
	DefaultFilename = "{{title}}"
	DefaultTag      = "webclip"
)

// Template is a processing profile selected for a URL by its triggers.
type Template struct {
	Name       string         `mapstructure:"name"        yaml:"name"`
	Folder     string         `mapstructure:"folder"      yaml:"folder,omitempty"`
	Tags       []string       `mapstructure:"tags"        yaml:"tags,omitempty"`
	Filename   string         `mapstructure:"filename"    yaml:"filename,omitempty"`
	Triggers   []string       `mapstructure:"triggers"    yaml:"triggers,omitempty"`
	Properties map[string]any `mapstructure:"properties"  yaml:"properties,omitempty"`
	GatherOpts []string       `mapstructure:"gather_opts" yaml:"gather_opts,omitempty"`
}

// SetDefaults fills empty fields. A nil Tags slice gets the default tag; an
// explicitly empty list is kept.
func (t *Template) SetDefaults() {
	if t.Name == "" {
		t.Name = DefaultTemplateName
	}
	if t.Folder == "" {
		t.Folder = DefaultFolder
	}
	if t.Tags == nil {
		t.Tags = []string{DefaultTag}
	}
	if t.Filename == "" {
		t.Filename = DefaultFilename
	}
}

// IsDefault reports whether t is the reserved fallback template.
func (t Template) IsDefault() bool {
	return t.Name == DefaultTemplateName
}

// BareDefault returns the fallback used when no template named "default"
// is configured.
func BareDefault() Template {
	t := Template{Name: DefaultTemplateName}
	t.SetDefaults()
	return t
}

// TemplateByName returns the first template called name.
func TemplateByName(name string, templates []Template) (Template, bool) {
	for _, t := range templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
