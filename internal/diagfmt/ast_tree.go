package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// treeGap is the number of columns between sibling subtrees.
const treeGap = 3

type treeNode struct {
	label    string
	children []*treeNode
}

// treeBlock is a rendered subtree: lines padded to width display columns,
// anchor is the column the parent connector points at.
type treeBlock struct {
	lines  []string
	width  int
	anchor int
}

// renderTree draws node top-down: the label is centered over its children
// and joined to them by a row of / | \ connectors.
func renderTree(node *treeNode) treeBlock {
	labelWidth := runewidth.StringWidth(node.label)
	if len(node.children) == 0 {
		return treeBlock{lines: []string{node.label}, width: labelWidth, anchor: labelWidth / 2}
	}

	kids := make([]treeBlock, len(node.children))
	for i, child := range node.children {
		kids[i] = renderTree(child)
	}
	rows, anchors, rowWidth := joinBlocks(kids)

	mid := (anchors[0] + anchors[len(anchors)-1]) / 2
	labelStart := mid - labelWidth/2
	if labelStart < 0 {
		// метка шире детей: сдвигаем детей вправо
		shift := -labelStart
		pad := strings.Repeat(" ", shift)
		for i := range rows {
			rows[i] = pad + rows[i]
		}
		for i := range anchors {
			anchors[i] += shift
		}
		rowWidth += shift
		labelStart = 0
	}
	width := max(rowWidth, labelStart+labelWidth)
	root := labelStart + labelWidth/2

	connector := []byte(strings.Repeat(" ", width))
	connector[root] = '|'
	for _, a := range anchors {
		switch {
		case a < root:
			connector[a] = '/'
		case a > root:
			connector[a] = '\\'
		default:
			connector[a] = '|'
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, runewidth.FillRight(strings.Repeat(" ", labelStart)+node.label, width), string(connector))
	for _, row := range rows {
		lines = append(lines, runewidth.FillRight(row, width))
	}
	return treeBlock{lines: lines, width: width, anchor: root}
}

// joinBlocks lays blocks side by side and returns the joined rows, the
// anchor column of every block and the total width.
func joinBlocks(blocks []treeBlock) (rows []string, anchors []int, width int) {
	height := 0
	for _, b := range blocks {
		height = max(height, len(b.lines))
	}
	anchors = make([]int, len(blocks))
	offset := 0
	for i, b := range blocks {
		if i > 0 {
			offset += treeGap
		}
		anchors[i] = offset + b.anchor
		offset += b.width
	}
	gap := strings.Repeat(" ", treeGap)
	rows = make([]string, height)
	for r := range rows {
		var sb strings.Builder
		for i, b := range blocks {
			if i > 0 {
				sb.WriteString(gap)
			}
			line := ""
			if r < len(b.lines) {
				line = b.lines[r]
			}
			sb.WriteString(runewidth.FillRight(line, b.width))
		}
		rows[r] = sb.String()
	}
	return rows, anchors, offset
}
