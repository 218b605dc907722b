package loadcontig

import "io"

// Size returns the number of bytes between the current position of s and
// its end. The position of s is restored before returning.
func Size(s io.Seeker) (int64, error) {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, SourceUnavailable.Wrap(err)
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, SourceUnavailable.Wrap(err)
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, SourceUnavailable.Wrap(err)
	}
	if end < cur {
		return 0, nil
	}
	return end - cur, nil
}
