package skills

// MatchThreshold is the minimum similarity ratio at which a rubric
// requirement is accepted as equivalent to a case-stated skill name.
const MatchThreshold = 0.9

// Ratio computes a character-level sequence-matching similarity between two
// strings in [0.0, 1.0]: twice the number of matched characters divided by
// the total length, with matches found by recursively taking the longest
// common block on either side.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchSize(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// matchSize sums the lengths of all matching blocks between a and b.
func matchSize(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchSize(a[:i], b[:j]) + matchSize(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common block between a and b, preferring
// the earliest occurrence in a, then in b.
func longestMatch(a, b []rune) (besti, bestj, bestSize int) {
	// b2j maps each rune to its positions in b
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the longest match ending at a[i-1], b[j-1]
	j2len := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(b2j[r]))
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestSize
}

// BestMatch returns the rubric requirement with the highest similarity
// ratio >= threshold against the (normalized) skill name, or false when no
// requirement clears the threshold. Ties are broken first-encountered-wins.
func BestMatch(skillName string, requirements []string, threshold float64) (string, bool) {
	if skillName == "" || len(requirements) == 0 {
		return "", false
	}

	normalizedSkill := NormalizeName(skillName)
	best := ""
	bestRatio := 0.0
	found := false

	for _, req := range requirements {
		if req == "" {
			continue
		}
		ratio := Ratio(normalizedSkill, NormalizeName(req))
		if ratio >= threshold && ratio > bestRatio {
			bestRatio = ratio
			best = req
			found = true
		}
	}
	return best, found
}
