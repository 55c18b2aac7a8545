// Package viz renders rigidlog output in the terminal.
//
// CLI summaries use the lipgloss [Styles] built from the current [Theme].
// [Live] is a Bubble Tea model for `rigidlog run --live`: it receives a
// [ProgressMsg] after every recorded tick and draws the tracked bodies from
// above on a braille [Canvas], with run progress and a kinetic energy plot.
//
// # Key Bindings
//
//	q, Esc, Ctrl+C - stop the run; the view exits once the recorders close
package viz
