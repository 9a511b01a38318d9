package vm

type Opcode uint32

const (
	NOP Opcode = iota
	// PRE-STACK ... TOS+1 TOS | OP |  POST-STACK |
	PUSH // | x | A

	ADD      // A B | C = A + B | C
	SUBTRACT // A B | C = A - B | C
	MULTIPLY // A B | C = A * B | C
	DIVIDE   // A B | C = A / B | C, truncating, B != 0

	SWAP // A B | | B A
	OVER // A B | | A B A
	DUP  // A | | A A
	DROP // A | |

	UNKNOWN // | Arg: the unresolved token. Always fails. |

	OpcodeMax
)

// Primitives maps the built-in word names onto their opcodes.
var Primitives = map[string]Opcode{
	"+":    ADD,
	"-":    SUBTRACT,
	"*":    MULTIPLY,
	"/":    DIVIDE,
	"swap": SWAP,
	"over": OVER,
	"dup":  DUP,
	"drop": DROP,
}

// Arity is the number of operands an opcode needs on the stack.
func (o Opcode) Arity() int {
	switch o {
	case ADD, SUBTRACT, MULTIPLY, DIVIDE, SWAP, OVER:
		return 2
	case DUP, DROP:
		return 1
	}
	return 0
}

func (o Opcode) String() string {
	switch o {
	case NOP:
		return "NOP"
	case PUSH:
		return "PUSH"
	case ADD:
		return "ADD"
	case SUBTRACT:
		return "SUBTRACT"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case SWAP:
		return "SWAP"
	case OVER:
		return "OVER"
	case DUP:
		return "DUP"
	case DROP:
		return "DROP"
	case UNKNOWN:
		return "UNKNOWN"
	}
	panic("Unnamed opcode")
}
