package output

// State tags a row so renderers can style it
type State string

const (
	StateNone    State = ""
	StateVisible State = "visible"
	StateHidden  State = "hidden"
	StateOn      State = "on"
	StateOff     State = "off"
	StateWarning State = "warning"
)

// Row is one key/value line. Depth indents nested items such as child
// objects.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	State State  `json:"state,omitempty"`
	Depth int    `json:"depth,omitempty"`
}

// Section is a titled group of rows
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Report is what a command prints
type Report struct {
	Title    string     `json:"title"`
	Sections []*Section `json:"sections,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
}

// Section appends a new section and returns it for filling
func (r *Report) Section(title string) *Section {
	s := &Section{Title: title}
	r.Sections = append(r.Sections, s)
	return s
}

// Add appends a row
func (s *Section) Add(key, value string, state State) *Section {
	s.Rows = append(s.Rows, Row{Key: key, Value: value, State: state})
	return s
}

// AddNested appends an indented row
func (s *Section) AddNested(depth int, key, value string, state State) *Section {
	s.Rows = append(s.Rows, Row{Key: key, Value: value, State: state, Depth: depth})
	return s
}

// OnOff returns StateOn or StateOff
func OnOff(on bool) State {
	if on {
		return StateOn
	}
	return StateOff
}

// Visibility returns StateVisible or StateHidden
func Visibility(visible bool) State {
	if visible {
		return StateVisible
	}
	return StateHidden
}
