// Package html normalises HTML documents to readable text. Scripts,
// styles and markup are dropped and entities decoded.
package html
