package canvas

// CharacterMerger decides what a cell shows when a line is drawn over
// another line.
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with the line-crossing rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{
		mergeMap: make(map[mergePair]rune),
	}
	m.initializeMergeRules()
	return m
}

// Merge combines two characters. Crossing lines become a junction; anything
// else is replaced by the newer character.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == continuation || existing == new {
		return new
	}
	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}
	return new
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'
	m.mergeMap[mergePair{'┼', '─'}] = '┼'
	m.mergeMap[mergePair{'┼', '│'}] = '┼'
	m.mergeMap[mergePair{'╱', '╲'}] = '╳'
	m.mergeMap[mergePair{'╳', '╱'}] = '╳'
	m.mergeMap[mergePair{'╳', '╲'}] = '╳'

	// ASCII
	m.mergeMap[mergePair{'-', '|'}] = '+'
	m.mergeMap[mergePair{'+', '-'}] = '+'
	m.mergeMap[mergePair{'+', '|'}] = '+'
	m.mergeMap[mergePair{'/', '\\'}] = 'X'
	m.mergeMap[mergePair{'X', '/'}] = 'X'
	m.mergeMap[mergePair{'X', '\\'}] = 'X'
}
