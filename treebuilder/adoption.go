package treebuilder

import (
	"github.com/arbortree/arbor/dom"
	"github.com/arbortree/arbor/internal/constants"
)

// adoptionAgency implements the adoption agency algorithm for misnested
// formatting elements, per WHATWG HTML §13.2.5.2.5. The outer loop runs at
// most 8 times and the inner loop at most 3 times past the last active
// formatting match (P6); both bounds are literal below.
func (tb *TreeBuilder) adoptionAgency(subject string) {
	if cur := tb.currentElement(); cur != dom.NoHandle && tb.tree.TagName(cur) == subject {
		if !tb.hasActiveFormattingEntry(subject) {
			tb.popUntil(subject)
			return
		}
	}

	for outer := 0; outer < 8; outer++ {
		formattingIndex, ok := tb.findActiveFormattingIndex(subject)
		if !ok {
			return
		}
		fmtEntry := tb.activeFormatting[formattingIndex]
		formattingElement := fmtEntry.node
		if formattingElement == dom.NoHandle {
			tb.removeFormattingEntry(formattingIndex)
			return
		}

		formattingInOpenIndex, ok := tb.indexOfOpenElement(formattingElement)
		if !ok {
			tb.removeFormattingEntry(formattingIndex)
			return
		}

		if !tb.hasElementInScope(tb.tree.TagName(formattingElement), constants.DefaultScope) {
			return
		}

		furthestBlock := dom.NoHandle
		for i := formattingInOpenIndex + 1; i < len(tb.openElements); i++ {
			if tb.isSpecialElement(tb.openElements[i]) {
				furthestBlock = tb.openElements[i]
				break
			}
		}

		if furthestBlock == dom.NoHandle {
			for len(tb.openElements) > 0 {
				popped := tb.popCurrent()
				if popped == formattingElement {
					break
				}
			}
			tb.removeFormattingEntry(formattingIndex)
			return
		}

		bookmark := formattingIndex + 1

		node := furthestBlock
		lastNode := furthestBlock

		innerCounter := 0
		for {
			innerCounter++

			nodeIndex, ok := tb.indexOfOpenElement(node)
			if !ok || nodeIndex == 0 {
				return
			}
			node = tb.openElements[nodeIndex-1]

			if node == formattingElement {
				break
			}

			nodeFormattingIndex, hasNodeFormatting := tb.findActiveFormattingIndexByNode(node)
			if innerCounter > 3 && hasNodeFormatting {
				tb.removeFormattingEntry(nodeFormattingIndex)
				if nodeFormattingIndex < bookmark {
					bookmark--
				}
				hasNodeFormatting = false
			}

			if !hasNodeFormatting {
				idx, ok := tb.indexOfOpenElement(node)
				if !ok {
					return
				}
				tb.removeOpenElementAt(idx)
				if idx < len(tb.openElements) {
					node = tb.openElements[idx]
				}
				continue
			}

			entry := tb.activeFormatting[nodeFormattingIndex]
			newElement := tb.tree.CreateElementNS(entry.name, dom.NamespaceHTML)
			for _, a := range entry.attrs {
				tb.tree.SetAttrNS(newElement, a.Namespace, a.Name, a.Value)
			}
			tb.activeFormatting[nodeFormattingIndex].node = newElement
			tb.openElements[tb.mustIndexOfOpenElement(node)] = newElement
			node = newElement

			if lastNode == furthestBlock {
				bookmark = nodeFormattingIndex + 1
			}

			tb.tree.Remove(lastNode)
			tb.tree.AppendChild(node, lastNode)

			lastNode = node
		}

		commonAncestor := tb.openElements[formattingInOpenIndex-1]
		tb.tree.Remove(lastNode)
		if tb.shouldFosterParent(commonAncestor) {
			tb.insertFosterNode(lastNode)
		} else {
			tb.tree.AppendChild(commonAncestor, lastNode)
		}

		entry := tb.activeFormatting[formattingIndex]
		newFormattingElement := tb.tree.CreateElementNS(entry.name, dom.NamespaceHTML)
		for _, a := range entry.attrs {
			tb.tree.SetAttrNS(newFormattingElement, a.Namespace, a.Name, a.Value)
		}
		tb.activeFormatting[formattingIndex].node = newFormattingElement

		for {
			children := tb.tree.Children(furthestBlock)
			if len(children) == 0 {
				break
			}
			child := children[0]
			tb.tree.Remove(child)
			tb.tree.AppendChild(newFormattingElement, child)
		}
		tb.tree.AppendChild(furthestBlock, newFormattingElement)

		entryToMove := tb.activeFormatting[formattingIndex]
		tb.removeFormattingEntry(formattingIndex)
		bookmark--
		if bookmark < 0 {
			bookmark = 0
		}
		if bookmark > len(tb.activeFormatting) {
			bookmark = len(tb.activeFormatting)
		}
		tb.activeFormatting = append(tb.activeFormatting, formattingEntry{})
		copy(tb.activeFormatting[bookmark+1:], tb.activeFormatting[bookmark:])
		tb.activeFormatting[bookmark] = entryToMove

		if idx, ok := tb.indexOfOpenElement(formattingElement); ok {
			tb.removeOpenElementAt(idx)
		}
		furthestIdx := tb.mustIndexOfOpenElement(furthestBlock)
		tb.insertOpenElementAt(furthestIdx+1, newFormattingElement)
	}
}

func (tb *TreeBuilder) isSpecialElement(el dom.Handle) bool {
	if el == dom.NoHandle || tb.tree.Namespace(el) != dom.NamespaceHTML {
		return false
	}
	return constants.SpecialElements[tb.tree.TagName(el)]
}

func (tb *TreeBuilder) shouldFosterParent(commonAncestor dom.Handle) bool {
	if commonAncestor == dom.NoHandle {
		return false
	}
	switch tb.tree.TagName(commonAncestor) {
	case "table", "tbody", "tfoot", "thead", "tr":
		return true
	default:
		return false
	}
}

func (tb *TreeBuilder) insertFosterNode(node dom.Handle) {
	tableEl := dom.NoHandle
	for i := len(tb.openElements) - 1; i >= 0; i-- {
		if tb.tree.TagName(tb.openElements[i]) == "table" && tb.tree.Namespace(tb.openElements[i]) == dom.NamespaceHTML {
			tableEl = tb.openElements[i]
			break
		}
	}
	if tableEl == dom.NoHandle {
		tb.tree.AppendChild(tb.currentNode(), node)
		return
	}
	parent, ok := tb.tree.Parent(tableEl)
	if !ok {
		tb.tree.AppendChild(tb.tree.Root(), node)
		return
	}
	tb.tree.InsertBefore(parent, node, tableEl)
}

func (tb *TreeBuilder) indexOfOpenElement(target dom.Handle) (int, bool) {
	for i, el := range tb.openElements {
		if el == target {
			return i, true
		}
	}
	return -1, false
}

func (tb *TreeBuilder) mustIndexOfOpenElement(target dom.Handle) int {
	idx, ok := tb.indexOfOpenElement(target)
	if !ok {
		panic("treebuilder: expected element on open element stack")
	}
	return idx
}

func (tb *TreeBuilder) removeOpenElementAt(index int) {
	if index < 0 || index >= len(tb.openElements) {
		return
	}
	copy(tb.openElements[index:], tb.openElements[index+1:])
	tb.openElements = tb.openElements[:len(tb.openElements)-1]
}

func (tb *TreeBuilder) insertOpenElementAt(index int, el dom.Handle) {
	if index < 0 {
		index = 0
	}
	if index > len(tb.openElements) {
		index = len(tb.openElements)
	}
	tb.openElements = append(tb.openElements, dom.NoHandle)
	copy(tb.openElements[index+1:], tb.openElements[index:])
	tb.openElements[index] = el
}
