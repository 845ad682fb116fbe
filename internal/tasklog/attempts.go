package tasklog

// PartitionAttempts splits the attempt indexes of a task instance into the
// set viewable inline and the set redirected to the external log provider.
//
// tryNumber is the highest attempt index the task has reached; nil means the
// task has not run yet and both sets are empty. Attempt 0 is the live/current
// attempt: it is only worth listing once there are older attempts to compare
// against, so it is excluded entirely while tryNumber < 2, and when present it
// is always viewable inline. Attempts 1..tryNumber follow the redirect flag.
func PartitionAttempts(tryNumber *int, externalRedirect bool) (internal, external []int) {
	if tryNumber == nil {
		return nil, nil
	}

	if *tryNumber >= 2 {
		internal = append(internal, 0)
	}

	for i := 1; i <= *tryNumber; i++ {
		if externalRedirect {
			external = append(external, i)
		} else {
			internal = append(internal, i)
		}
	}

	return internal, external
}
