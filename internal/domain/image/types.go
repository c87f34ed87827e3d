package image

// ValidationResult captures the outcome of upload validation.
type ValidationResult struct {
	IsValid  bool
	Format   string
	Width    int
	Height   int
	FileSize int64
	Error    error
	Reason   string
}
