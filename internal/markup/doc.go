// Package markup splits HTML templates with @-control blocks and {{ }}
// interpolations into a flat token stream.
//
// The pipeline is:
//   - [Tokenize]: scans source into [Token] values (tags, control block
//     headers, close braces, interpolations, text runs)
//   - [IsOpeningBlock], [IsClosingBlock], [IsSelfClosingTag]: classify tokens
//     for indentation bookkeeping
//
// It is a lexer only. Tag balance and expression syntax are never checked.
package markup
