package contact

// jaroWinkler scores how close two lowercase names are, between 0 and 1.
// A shared prefix of up to four characters boosts the base Jaro score,
// which suits first names well: recognizers usually get the start of a
// name right and mangle the tail.
func jaroWinkler(a, b string) float64 {
	base := jaro(a, b)

	prefix := 0
	for i := 0; i < min(len(a), len(b), 4); i++ {
		if a[i] != b[i] {
			break
		}
		prefix++
	}

	return base + float64(prefix)*0.1*(1-base)
}

func jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max(len(a), len(b))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))

	matches := 0
	for i := 0; i < len(a); i++ {
		lo := max(0, i-window)
		hi := min(len(b), i+window+1)
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	j := 0
	for i := 0; i < len(a); i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
