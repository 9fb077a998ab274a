package tbd

// Copy duplicates every live entry of src into dst. dst must already be
// initialized and hold no live entries of its own; Copy does not clear
// it first. It returns the first error a Create on dst reports
// (typically ErrOutOfSpace); dst may hold a partial copy in that case.
func Copy(dst, src *Store) error {
	for it := src.Begin(); !it.Equal(src.End()); it = it.Next() {
		if err := dst.Create(it.Key(), it.Value()); err != nil {
			return err
		}
	}

	return nil
}
