package arrange

var (
	majorScale = []int{0, 2, 4, 5, 7, 9, 11}
	minorScale = []int{0, 2, 3, 5, 7, 8, 10}

	// I-V-vi-IV and i-VI-III-VII as scale degrees.
	majorChords = []int{0, 4, 5, 3}
	minorChords = []int{0, 5, 2, 6}
)

// Scale returns the major scale for mode 1 and natural minor otherwise.
func Scale(mode int) []int {
	if mode == 1 {
		return append([]int(nil), majorScale...)
	}
	return append([]int(nil), minorScale...)
}

// ChordRoots returns the four-chord progression for mode as scale degrees.
func ChordRoots(mode int) []int {
	if mode == 1 {
		return append([]int(nil), majorChords...)
	}
	return append([]int(nil), minorChords...)
}

// RootNote is the MIDI root of key in octave 3.
func RootNote(key int) int { return 48 + key }

// ScaleNote converts a scale degree to a MIDI note. Degrees outside the scale
// wrap into neighbouring octaves, including negative ones.
func ScaleNote(root int, scale []int, degree, octave int) int {
	n := len(scale)
	o := floorDiv(degree, n)
	i := degree - o*n
	return root + scale[i] + (o+octave)*12
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
