package state

// #region imports
import "strconv"

// #endregion imports

// #region buckets

// LengthBucket discretizes a content length into 0-9 so small edits to a
// candidate do not fragment the state space.
func LengthBucket(n int) string {
	bucket := 0
	for threshold := 32; n >= threshold && bucket < 9; threshold *= 2 {
		bucket++
	}
	return strconv.Itoa(bucket)
}

// CountBucket discretizes a small count, capping at 9.
func CountBucket(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 9 {
		n = 9
	}
	return strconv.Itoa(n)
}

// Flag encodes a boolean feature as "1"/"0".
func Flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// #endregion buckets
