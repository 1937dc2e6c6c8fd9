package Draft

// Panel is the closed set of UI panels the app can show.
type Panel int

const (
	PanelNone Panel = iota
	PanelGroundCheck
	PanelAgronomy
	PanelQA
	PanelAdmin
)

var panelNames = map[Panel]string{
	PanelNone:        "",
	PanelGroundCheck: "groundcheck",
	PanelAgronomy:    "agronomy",
	PanelQA:          "qa",
	PanelAdmin:       "admin",
}

var panelTitles = map[Panel]string{
	PanelNone:        "",
	PanelGroundCheck: "Ground Check",
	PanelAgronomy:    "Agronomy",
	PanelQA:          "Quality Assurance",
	PanelAdmin:       "Administration",
}

func (p Panel) String() string {
	return panelNames[p]
}

// Title returns the display title for the panel.
func (p Panel) Title() string {
	return panelTitles[p]
}

// PanelFromString maps a stored panel name back to its kind. Unknown names
// map to PanelNone.
func PanelFromString(name string) Panel {
	for panel, n := range panelNames {
		if n == name && panel != PanelNone {
			return panel
		}
	}
	return PanelNone
}

// MarshalJSON persists the panel by name so the store file stays readable.
func (p Panel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Panel) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' {
		name = name[1 : len(name)-1]
	}
	*p = PanelFromString(name)
	return nil
}
