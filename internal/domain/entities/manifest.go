package entities

// Manifest is the ordered list of archive-relative file paths.
// Entries use forward slashes and never start with a separator.
type Manifest []string
