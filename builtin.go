package yangmodel

import _ "embed"

// Built-in YANG source text, compiled into the binary with go:embed. The
// teacher's snapshot shipped these as gzip blobs (builtInYangtreeRoot,
// builtInYangMetadata, builtInYanglib2016, builtInYanglib2019) that were
// never actually generated anywhere in the retrieved tree; go:embed is the
// modern replacement and needs no generated asset or Unzip step.

//go:embed builtin/yangmodel-root.yang
var builtinRootYANG string

//go:embed builtin/ietf-yang-metadata.yang
var builtinYangMetadataYANG string

//go:embed builtin/ietf-yang-library@2016-06-21.yang
var builtinYanglib2016YANG string

//go:embed builtin/ietf-yang-library@2019-01-04.yang
var builtinYanglib2019YANG string
