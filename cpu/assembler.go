// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the first macro line.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

func init() {
	maps.Copy(sysEquate, _cpu_defines)
}

var (
	identifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	parenRegexp      = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass assembler for the CHIP-8 system.
//
// Each line holds at most one instruction or directive:
//
//	label: mnemonic operand, operand ; comment
//
// Directives are `.equ NAME VALUE`, `.byte v, ...` and `.word v, ...`.
// `$(expr)` is evaluated at assembly time over the equates and the
// labels defined so far.
//
// `.macro NAME arg...` up to `.endm` defines a macro. Arguments are
// substituted as equates, and `@` in the body expands to a prefix
// unique to the invocation, for local labels.
//
// Note that `sne vx, vy` (9XY0) skips the next instruction when the
// registers are EQUAL, the same as `se`.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expanding map[string]bool // Macros being expanded.
	expansion int             // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate,
// applied at the start of each Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// registerOf returns the register index of a v0-vf word.
func registerOf(word string) (reg uint16, ok bool) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		return
	}
	v64, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}
	return uint16(v64), true
}

// isKeyword returns true for words that are never values.
func isKeyword(word string) bool {
	_, is_reg := registerOf(word)
	return is_reg || strings.EqualFold(word, "i") || strings.EqualFold(word, "dt")
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 || v64 > 0xffff {
		err = ErrValueRange
		return
	}

	value = uint16(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 || !identifierRegexp.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !identifierRegexp.MatchString(label) || isKeyword(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n := 1; n < len(words); n++ {
		equate, ok := asm.Equate[words[n]]
		if ok {
			words[n] = equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		err = asm.expandMacro(words[0], macro, words[1:])
		words = nil
		return
	}

	return
}

// expandMacro assembles the body of a macro invocation.
func (asm *Assembler) expandMacro(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	if asm.expanding[name] {
		err = ErrMacroNesting
		return
	}
	if asm.expanding == nil {
		asm.expanding = map[string]bool{}
	}
	asm.expanding[name] = true
	defer delete(asm.expanding, name)

	// Turn args into equs
	old_equate := maps.Clone(asm.Equate)
	for n, arg := range macro.Args {
		asm.Equate[arg] = args[n]
	}
	defer func() { asm.Equate = old_equate }()

	asm.expansion++
	prefix := fmt.Sprintf("%v_%v_", name, asm.expansion)
	for n, line := range macro.Lines {
		lineno := macro.LineNo + n

		line = strings.ReplaceAll(line, "@", prefix)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err == nil {
			err = asm.parseWords(words, lineno)
		}
		if err != nil {
			err = &ErrMacro{Macro: name, Line: lineno, Err: err}
			return
		}
	}

	return
}

// currentAddress gets the address of the next generated byte.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_ADDRESS
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return int(last.Address) + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	clear(asm.expanding)
	asm.expansion = 0
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		directive := strings.Fields(strings.ReplaceAll(line, ",", " "))

		// .macro NAME arg...
		if len(directive) > 0 && strings.EqualFold(directive[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(directive) < 2 || !identifierRegexp.MatchString(directive[1]) || isKeyword(directive[1]) {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[directive[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   directive[2:],
			}
			asm.Macro[directive[1]] = macro
			continue
		}

		if len(directive) > 0 && strings.EqualFold(directive[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of address labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		if addr > int(ARG_ADDR.Limit()) {
			err = ErrValueRange
			return
		}
		op.Bytes[0] |= byte(addr >> 8)
		op.Bytes[1] |= byte(addr)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op := Opcode{
		LineNo:  lineno,
		Address: uint16(asm.currentAddress()),
		Words:   words,
	}

	switch strings.ToLower(words[0]) {
	case ".byte":
		op.Data = true
		for _, word := range words[1:] {
			var value uint16
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if value > 0xff {
				err = ErrValueRange
				return
			}
			op.Bytes = append(op.Bytes, byte(value))
		}
	case ".word":
		op.Data = true
		for _, word := range words[1:] {
			var value uint16
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			op.Bytes = append(op.Bytes, byte(value>>8), byte(value))
		}
	default:
		var ins Instruction
		ins, op.LinkLabel, err = asm.parseInstruction(words)
		if err != nil {
			return
		}
		op.Bytes = []byte{byte(ins.Word >> 8), byte(ins.Word)}
	}

	if len(op.Bytes) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	if int(op.Address)+len(op.Bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	asm.Opcode = append(asm.Opcode, op)

	return
}

// parseInstruction finds the operation whose mnemonic and operand
// kinds match the words, and encodes it.
func (asm *Assembler) parseInstruction(words []string) (ins Instruction, label string, err error) {
	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	known := false
	for n := range opForms {
		op := Op(n)
		if op == OP_UNKNOWN || op.String() != mnemonic {
			continue
		}
		known = true

		var values []uint16
		var ok bool
		values, label, ok, err = asm.matchArgs(op.Args(), args)
		if err != nil {
			return
		}
		if !ok {
			continue
		}

		ins, err = MakeInstruction(op, values...)
		return
	}

	if known {
		err = ErrOpcodeInvalid
	} else {
		err = ErrInstructionInvalid
	}

	return
}

// matchArgs matches words against operand kinds, returning the valued
// operands. ok is false if the words are the wrong shape.
func (asm *Assembler) matchArgs(kinds []CodeArg, words []string) (values []uint16, label string, ok bool, err error) {
	if len(kinds) != len(words) {
		return
	}

	for n, kind := range kinds {
		word := words[n]
		switch kind {
		case ARG_VX, ARG_VY:
			reg, is_reg := registerOf(word)
			if !is_reg {
				return
			}
			values = append(values, reg)
		case ARG_I:
			if !strings.EqualFold(word, "i") {
				return
			}
		case ARG_DT:
			if !strings.EqualFold(word, "dt") {
				return
			}
		default:
			if isKeyword(word) {
				return
			}
			var value uint16
			value, err = asm.valueOf(word)
			if err != nil {
				if kind != ARG_ADDR || !identifierRegexp.MatchString(word) {
					return
				}
				// Linked after the whole program is parsed.
				err = nil
				label = word
				value = 0
			}
			if value > kind.Limit() {
				err = ErrValueRange
				return
			}
			values = append(values, value)
		}
	}

	ok = true
	return
}
