package elan

func (e *Executor) executeReturn(node *Node) flow {
	if e.calls == 0 {
		e.warn(CatFlow, node.Position, "%v", ErrUnboundReturn)
		return normal
	}
	var value Value
	if len(node.Operands) > 0 {
		value = e.eval(node.Operand(0))
	}
	return flow{Signal: SignalReturn, Value: value}
}

// executeIf runs the branch selected by the condition. Signals from the
// branch propagate unchanged.
func (e *Executor) executeIf(node *Node) flow {
	if Truthy(e.eval(node.Operand(0))) {
		return e.executeBlock(node.Block(1))
	}
	if len(node.Operands) > 2 {
		return e.executeBlock(node.Block(2))
	}
	return normal
}

// executeWhile is the only construct that consumes a break. The body runs
// at most MaxLoopIterations times.
func (e *Executor) executeWhile(node *Node) flow {
	limit := e.config.MaxLoopIterations
	body := node.Block(1)
	for iterations := 0; ; iterations++ {
		if !Truthy(e.eval(node.Operand(0))) {
			return normal
		}
		if iterations >= limit {
			e.warn(CatFlow, node.Position, "%v: stopped after %d iterations", ErrLoopLimit, limit)
			return normal
		}
		result := e.executeBlock(body)
		switch result.Signal {
		case SignalBreak:
			e.logger.DebugCat(CatFlow, "Loop broken after %d iterations", iterations+1)
			return normal
		case SignalReturn:
			return result
		}
	}
}

// executeDefine registers an inline macro, or opens a capture that
// collects the following statements until "end".
func (e *Executor) executeDefine(node *Node) flow {
	name := node.Token(0)
	var params []string
	if paramNode, ok := node.Operand(1).(*Node); ok {
		for i := range paramNode.Operands {
			params = append(params, paramNode.Token(i))
		}
	}

	if len(node.Operands) < 3 {
		e.defining = &definition{name: name, params: params, position: node.Position}
		e.logger.DebugCat(CatMacro, "Capturing body of %s", name)
		return normal
	}

	e.memory.DefineMacro(name, params, node.Block(2), node.Position)
	e.logger.DebugCat(CatMacro, "Defined macro %s(%d params)", name, len(params))
	return normal
}

func (e *Executor) executeEnd(node *Node) flow {
	if e.defining == nil {
		e.warn(CatMacro, node.Position, "'end' without an open definition")
		return normal
	}
	d := e.defining
	e.defining = nil
	e.memory.DefineMacro(d.name, d.params, d.body, d.position)
	e.logger.DebugCat(CatMacro, "Defined macro %s(%d params) with %d statements", d.name, len(d.params), len(d.body))
	return normal
}

// call evaluates a macro invocation. Lookup, arity and depth failures are
// reported before any frame is pushed.
func (e *Executor) call(node *Node) Value {
	name := node.Token(0)
	args := node.Operands[1:]

	macro, ok := e.memory.Macro(name)
	if !ok {
		e.fail(CatMacro, node.Position, "%v: %s", ErrUndefinedMacro, name)
		return nil
	}
	if len(args) != len(macro.Params) {
		e.fail(CatArgument, node.Position, "%v: %s expects %d argument(s), got %d",
			ErrArityMismatch, name, len(macro.Params), len(args))
		return nil
	}
	if e.depth >= e.config.MaxCallDepth {
		e.fail(CatFlow, node.Position, "%v: %s at depth %d", ErrCallDepth, name, e.depth)
		return nil
	}

	// arguments see the caller's bindings, not the callee's frame
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = e.eval(arg)
	}
	return e.invoke(macro, values, node.Position)
}

// invoke runs a macro body in a fresh frame. The frame is popped on every
// exit path.
func (e *Executor) invoke(macro *Macro, args []Value, position *SourcePosition) Value {
	ctx := &MacroContext{
		MacroName:      macro.Name,
		DefinitionFile: macro.DefinitionFile,
		DefinitionLine: macro.DefinitionLine,
		ParentMacro:    e.macroContext,
	}
	if position != nil {
		ctx.InvocationFile = position.Filename
		ctx.InvocationLine = position.Line
	}

	e.memory.PushFrame()
	e.depth++
	e.calls++
	e.macroContext = ctx
	defer func() {
		e.macroContext = ctx.ParentMacro
		e.calls--
		e.depth--
		e.memory.PopFrame()
	}()

	for i, param := range macro.Params {
		e.memory.Define(param, args[i])
	}
	e.logger.DebugCat(CatMacro, "Calling %s at depth %d", macro.Name, e.depth)

	result := e.executeBlock(macro.Body)
	switch result.Signal {
	case SignalReturn:
		return result.Value
	case SignalBreak:
		e.warn(CatFlow, position, "%v: break escaped macro %s", ErrEscapingBreak, macro.Name)
	}
	return nil
}
