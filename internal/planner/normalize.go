package planner

// weeksTarget is the fixed plan length every generated plan is normalized
// to.
const weeksTarget = 3

// Normalize forces the plan to exactly three weeks with progressive
// overload. It is pure and total: the input is never mutated and any input
// yields a valid three-week plan.
//
// Missing weeks are created by cloning the last week with +1 set and +2
// reps per slot; extra weeks are truncated. An unconditional pass then adds
// +i sets and +2i reps to every slot of week index i (weeks 2 and 3). A
// cloned week receives both the clone-time increment and the pass
// increment, so clone-created weeks compound. That matches the behavior the
// rest of the product was built against and is kept deliberately; see
// DESIGN.md.
func Normalize(plan *Plan) *Plan {
	out := plan.Clone()

	if len(out.Weeks) == 0 {
		out.Weeks = []Week{{Number: 1, Days: []Day{}}}
	}

	for len(out.Weeks) < weeksTarget {
		last := out.Weeks[len(out.Weeks)-1]
		next := last.clone()
		next.Number = last.Number + 1
		for di := range next.Days {
			for si := range next.Days[di].Exercises {
				next.Days[di].Exercises[si].Sets++
				next.Days[di].Exercises[si].Reps += 2
			}
		}
		out.Weeks = append(out.Weeks, next)
	}

	if len(out.Weeks) > weeksTarget {
		out.Weeks = out.Weeks[:weeksTarget]
	}

	for i := 1; i < weeksTarget; i++ {
		for di := range out.Weeks[i].Days {
			for si := range out.Weeks[i].Days[di].Exercises {
				out.Weeks[i].Days[di].Exercises[si].Sets += i
				out.Weeks[i].Days[di].Exercises[si].Reps += 2 * i
			}
		}
	}

	for i := range out.Weeks {
		out.Weeks[i].Number = i + 1
	}
	out.DurationWeeks = weeksTarget

	return out
}
