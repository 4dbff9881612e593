package db

import "sync"

// --------------------------------------------------------------------------
// Store Binding
// --------------------------------------------------------------------------

// Binding pairs a connection descriptor with the processor selected for it.
// It owns the processor's lifetime and is the single object the rest of the
// application depends on.
type Binding struct {
	handle    *Handle
	processor Processor

	closeOnce sync.Once
}

// Bind creates a binding. The processor is expected to be connected by the
// caller (see engines.Open, which also implements the fallback policy).
func Bind(handle *Handle, processor Processor) *Binding {
	return &Binding{handle: handle, processor: processor}
}

// Handle returns the connection descriptor.
func (b *Binding) Handle() *Handle {
	return b.handle
}

// Processor returns the active backend processor.
func (b *Binding) Processor() Processor {
	return b.processor
}

// Document reports whether the active backend is a document store.
func (b *Binding) Document() bool {
	return b.handle.Document
}

// Name returns the active backend label.
func (b *Binding) Name() string {
	return b.processor.Name()
}

// Query forwards to the active processor.
func (b *Binding) Query(target string, args ...any) (*Result, error) {
	return b.processor.Query(target, args...)
}

// Update forwards to the active processor.
func (b *Binding) Update(target string, args ...any) (*Result, error) {
	return b.processor.Update(target, args...)
}

// Disconnect releases the processor's resources. Only the first call
// reaches the processor, so the shutdown path may be wired to multiple
// triggers safely.
func (b *Binding) Disconnect() error {
	var err error
	b.closeOnce.Do(func() {
		err = b.processor.Disconnect()
	})
	return err
}
