package vm

import "github.com/lookbusy1344/rv32i-toolchain/isa"

// mnemonicFor best-effort recovers a mnemonic string from decoded fields,
// purely for instrumentation (trace/statistics) — never on the execution
// path's correctness.
func mnemonicFor(f isa.Fields, word uint32) string {
	switch f.Opcode {
	case isa.OpOP:
		for name, fp := range isa.RTypeFuncs {
			if fp.Funct3 == f.Funct3 && fp.Funct7 == f.Funct7 {
				return name
			}
		}
	case isa.OpOPIMM:
		if f.Funct3 == 5 {
			if (word>>30)&1 != 0 {
				return "srai"
			}
			return "srli"
		}
		for name, funct3 := range isa.ITypeFunct3 {
			if funct3 == f.Funct3 && name != "srai" {
				return name
			}
		}
	case isa.OpLOAD:
		for name, funct3 := range isa.LoadFunct3 {
			if funct3 == f.Funct3 {
				return name
			}
		}
	case isa.OpSTORE:
		for name, funct3 := range isa.StoreFunct3 {
			if funct3 == f.Funct3 {
				return name
			}
		}
	case isa.OpBRANCH:
		for name, funct3 := range isa.BranchFunct3 {
			if funct3 == f.Funct3 {
				return name
			}
		}
	case isa.OpJAL:
		return "jal"
	case isa.OpJALR:
		return "jalr"
	case isa.OpLUI:
		return "lui"
	case isa.OpAUIPC:
		return "auipc"
	case isa.OpSYSTEM:
		if word == isa.WordEBreak {
			return "ebreak"
		}
		return "ecall"
	}
	return "unknown"
}
