package rule

// CollectIndicatorOperands walks a rule tree and returns every distinct
// indicator operand it references, keyed by FingerprintKey so a caller
// can compute each indicator series exactly once per strategy.
func CollectIndicatorOperands(node *Node) map[string]Operand {
	out := make(map[string]Operand)
	collect(node, out)
	return out
}

func collect(node *Node, out map[string]Operand) {
	if node == nil {
		return
	}
	addOperand := func(op Operand) {
		if op.Kind == OperandIndicator {
			out[op.FingerprintKey()] = op
		}
	}
	switch node.Kind {
	case NodeAbove, NodeBelow, NodeEquals, NodeCrossAbove, NodeCrossBelow:
		addOperand(node.A)
		addOperand(node.B)
	case NodeBetween:
		addOperand(node.V)
	case NodeAnd, NodeOr:
		for _, c := range node.Children {
			collect(c, out)
		}
	case NodeNot, NodeConsecutive, NodeAnyOf:
		collect(node.Child, out)
	}
}
