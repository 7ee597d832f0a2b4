package keymap

import "strings"

// Binding maps keys to an action. Short is the label shown in the help line;
// bindings without one are left out of it.
type Binding struct {
	Keys   []string
	Action Action
	Short  string
}

// All contains the lyric window bindings, in help order.
var All = []Binding{
	{[]string{"r"}, ActionReload, "reload"},
	{[]string{"R"}, ActionRefetch, "refetch"},
	{[]string{"x"}, ActionRemove, "remove"},
	{[]string{"i"}, ActionImport, "import"},
	{[]string{"c"}, ActionConnect, "connect"},
	{[]string{"d"}, ActionDisconnect, "disconnect"},
	{[]string{"+", "="}, ActionOffsetUp, "offset"},
	{[]string{"-", "_"}, ActionOffsetDown, ""},
	{[]string{"esc"}, ActionDismiss, ""},
	{[]string{"q", "ctrl+c"}, ActionQuit, "quit"},
}

// Help renders the bindings as a one-line summary. Offset up and down are
// folded into a single "+/-" entry.
func Help(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if b.Short == "" || len(b.Keys) == 0 {
			continue
		}
		key := b.Keys[0]
		if b.Action == ActionOffsetUp {
			key = "+/-"
		}
		parts = append(parts, key+" "+b.Short)
	}
	return strings.Join(parts, " · ")
}
