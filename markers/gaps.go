package markers

// DropGaps returns a copy of s without every sample at which any marker is missing. Sources
// encode dropped frames as NaN coordinates; the estimator requires a gap-free matrix in which
// sample i of every trajectory was recorded at the same instant. The second return value is
// the original index of each kept sample.
func DropGaps(s Set) (Set, []int, error) {
	n, err := s.NumSamples()
	if err != nil {
		return nil, nil, err
	}
	names := s.Names()
	kept := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ok := true
		for _, name := range names {
			if !isFinite(s[name][i]) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, i)
		}
	}

	out := make(Set, len(s))
	for _, name := range names {
		traj := make(Trajectory, len(kept))
		for j, i := range kept {
			traj[j] = s[name][i]
		}
		out[name] = traj
	}
	return out, kept, nil
}
