package vm

// TraceEntry records one executed instruction for ExecutionTrace.
type TraceEntry struct {
	PC    uint32
	Word  uint32
	Cycle int
}

// ExecutionTrace accumulates one TraceEntry per step when attached to a
// VM. It is nil unless a caller opts in (e.g. the CLI's --trace flag),
// keeping the steady-state Step/Run path free of bookkeeping.
type ExecutionTrace struct {
	Entries []TraceEntry
}

// PerformanceStatistics counts executed instructions grouped by opcode
// mnemonic, for a post-run summary. Nil unless a caller opts in.
type PerformanceStatistics struct {
	InstructionCounts map[string]int
	TotalCycles       int
}

// NewPerformanceStatistics creates an empty counter set.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{InstructionCounts: make(map[string]int)}
}

func (p *PerformanceStatistics) record(mnemonic string) {
	p.InstructionCounts[mnemonic]++
	p.TotalCycles++
}

// CodeCoverage records how many times each instruction address was
// executed, for the CLI's --coverage summary. Nil unless a caller opts in.
type CodeCoverage struct {
	Hit map[uint32]int
}

// NewCodeCoverage creates an empty coverage set.
func NewCodeCoverage() *CodeCoverage {
	return &CodeCoverage{Hit: make(map[uint32]int)}
}

func (c *CodeCoverage) record(pc uint32) {
	c.Hit[pc]++
}
