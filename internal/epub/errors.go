package epub

import "errors"

// Sentinel errors for container- and package-level failures. All of them
// abort the whole parse; callers match with errors.Is and the wrapped
// message carries the offending path or id.
var (
	// ErrInvalidArchive indicates the input is not a readable ZIP-family
	// archive, or its container descriptor cannot be parsed.
	ErrInvalidArchive = errors.New("epub: invalid archive")

	// ErrMissingContainerDescriptor indicates META-INF/container.xml is
	// absent from the archive.
	ErrMissingContainerDescriptor = errors.New("epub: META-INF/container.xml not found")

	// ErrNoRootFileDeclared indicates the container descriptor declares no
	// rootfile entry.
	ErrNoRootFileDeclared = errors.New("epub: no rootfile declared in container.xml")

	// ErrRootFileNotFound indicates the declared package document path is
	// absent from the archive.
	ErrRootFileNotFound = errors.New("epub: package document not found in archive")

	// ErrMalformedPackageXML indicates the package document is not
	// well-formed XML.
	ErrMalformedPackageXML = errors.New("epub: malformed package document")

	// ErrDuplicateManifestID indicates two manifest items share an id.
	ErrDuplicateManifestID = errors.New("epub: duplicate manifest id")

	// ErrUnresolvedSpineReference indicates a spine idref with no matching
	// manifest item.
	ErrUnresolvedSpineReference = errors.New("epub: unresolved spine reference")
)
