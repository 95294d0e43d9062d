package model

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	Path Path
	Hash string
}

// Source links a source file to its companion test file, when one exists.
type Source struct {
	Origin *File
	Test   *File
}
