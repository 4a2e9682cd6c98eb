// Package config describes the physical memory layout handed to the memory
// core at boot. On real hardware these values come from the linker (end of
// the kernel image) and the platform (end of physical memory); the hosted
// kernel uses the qemu-virt defaults and optionally overrides them from a
// TOML file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultKernelEnd is the first physical address past the kernel image
	// in the default qemu-virt layout.
	DefaultKernelEnd = uint64(0x80400000)

	// DefaultMemoryEnd is the exclusive upper bound of physical memory in
	// the default qemu-virt layout.
	DefaultMemoryEnd = uint64(0x80800000)
)

// Layout describes the physical byte range [KernelEnd, MemoryEnd) that the
// frame allocator manages: everything between the end of the kernel image
// and the end of physical memory.
type Layout struct {
	KernelEnd uint64 `toml:"kernel_end"`
	MemoryEnd uint64 `toml:"memory_end"`
}

// Default returns the qemu-virt memory layout.
func Default() Layout {
	return Layout{
		KernelEnd: DefaultKernelEnd,
		MemoryEnd: DefaultMemoryEnd,
	}
}

// Load reads a layout override from a TOML file. Fields missing from the
// file keep their default values.
func Load(path string) (Layout, error) {
	layout := Default()

	if _, err := toml.DecodeFile(path, &layout); err != nil {
		return Layout{}, fmt.Errorf("config: %w", err)
	}

	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}

	return layout, nil
}

// Validate checks that the layout leaves the allocator a non-empty range to
// manage.
func (l Layout) Validate() error {
	if l.KernelEnd >= l.MemoryEnd {
		return fmt.Errorf("config: kernel end %#x leaves no physical memory below memory end %#x", l.KernelEnd, l.MemoryEnd)
	}

	return nil
}
