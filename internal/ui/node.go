package ui

import (
	"slices"
	"strings"

	"bigtrip/internal/presenter"

	"github.com/charmbracelet/lipgloss"
)

// Stack is a vertical container of nodes.
type Stack struct {
	nodes []presenter.Node
	gap   int
}

func (s *Stack) Append(n presenter.Node)  { s.nodes = append(s.nodes, n) }
func (s *Stack) Prepend(n presenter.Node) { s.nodes = slices.Insert(s.nodes, 0, n) }

func (s *Stack) Replace(next, prev presenter.Node) {
	if i := slices.Index(s.nodes, prev); i >= 0 {
		s.nodes[i] = next
	}
}

func (s *Stack) Remove(n presenter.Node) {
	if i := slices.Index(s.nodes, n); i >= 0 {
		s.nodes = slices.Delete(s.nodes, i, i+1)
	}
}

// Holds reports whether n is in the stack.
func (s *Stack) Holds(n presenter.Node) bool {
	return slices.Contains(s.nodes, n)
}

// Nodes returns the held nodes in order.
func (s *Stack) Nodes() []presenter.Node {
	return slices.Clone(s.nodes)
}

func (s *Stack) View(width int) string {
	parts := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		if v := n.View(width); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n"+strings.Repeat("\n", s.gap))
}

// ListNode is the list of cards and forms. It tracks the selected card.
type ListNode struct {
	Stack
	cursor int

	// line range of the selected node in the last render
	selTop    int
	selBottom int
}

func (l *ListNode) View(width int) string {
	l.clamp()
	l.selTop, l.selBottom = 0, 0
	parts := make([]string, 0, len(l.nodes))
	line := 0
	for i, n := range l.nodes {
		gutter := CursorStyle.Render(" ")
		if i == l.cursor {
			gutter = CursorStyle.Render("▌")
		}
		body := n.View(max(0, width-2))
		lines := strings.Split(body, "\n")
		for j := range lines {
			lines[j] = gutter + " " + lines[j]
		}
		if i == l.cursor {
			l.selTop, l.selBottom = line, line+len(lines)-1
		}
		line += len(lines)
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Move shifts the selection by delta and clamps it to the list.
func (l *ListNode) Move(delta int) {
	l.cursor += delta
	l.clamp()
}

func (l *ListNode) Top() {
	l.cursor = 0
}

func (l *ListNode) Bottom() {
	l.cursor = len(l.nodes) - 1
	l.clamp()
}

// SelectedLines returns the first and last line of the selected node as
// last rendered.
func (l *ListNode) SelectedLines() (int, int) {
	return l.selTop, l.selBottom
}

// Selected returns the selected node, if any.
func (l *ListNode) Selected() (presenter.Node, bool) {
	l.clamp()
	if len(l.nodes) == 0 {
		return nil, false
	}
	return l.nodes[l.cursor], true
}

// Editor returns the open form. Presenters keep at most one open.
func (l *ListNode) Editor() (*editorView, bool) {
	for i, n := range l.nodes {
		if e, ok := n.(*editorView); ok {
			l.cursor = i
			return e, true
		}
	}
	return nil, false
}

func (l *ListNode) clamp() {
	l.cursor = min(l.cursor, len(l.nodes)-1)
	l.cursor = max(l.cursor, 0)
}
