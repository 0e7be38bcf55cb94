// Package token defines lexical token kinds for union declaration files.
// Invariants:
//   - Token.Text is exactly the source slice the Span covers.
//   - Annotations are lexed as '@' (Kind: At) + Ident; no per-annotation
//     token kinds.
//   - Built-in type names (string, int, ...) are identifiers. Payload
//     shapes are recognized by the classifier, not the lexer.
package token
