package types

// Version is the canonical module version. The trace file format's own
// version field (see trace.Header) evolves independently of this value.
const Version = "0.1.0"
