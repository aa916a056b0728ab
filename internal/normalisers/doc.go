// Package normalisers converts document formats into plain text.
//
// Each subpackage handles one format. Registry maps file extensions to the
// normaliser responsible for them; NewDefaultRegistry registers every
// built-in format.
package normalisers
