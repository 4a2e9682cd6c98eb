package kernel

import "testing"

func TestMemset(t *testing.T) {
	specs := []struct {
		size  int
		value byte
	}{
		{0, 0},
		{1, 0xff},
		{7, 0xaa},
		{4096, 0x00},
		{4096, 0xf0},
	}

	for specIndex, spec := range specs {
		buf := make([]byte, spec.size)
		for i := 0; i < len(buf); i++ {
			buf[i] = ^spec.value
		}

		Memset(buf, spec.value)

		for i := 0; i < len(buf); i++ {
			if buf[i] != spec.value {
				t.Errorf("[spec %d] expected byte %d to be set to %d; got %d", specIndex, i, spec.value, buf[i])
				break
			}
		}
	}
}
