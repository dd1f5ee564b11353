// Package text tokenizes the formatting mini-languages embedded in TEXT and
// MTEXT string values.
//
// Single-line TEXT uses %%-codes:
//
//	%%u  toggle underline      %%d  degree sign
//	%%o  toggle overline       %%p  plus/minus sign
//	%%k  toggle strikethrough  %%c  diameter sign
//	%%%  literal percent       %%nnn character by decimal code
//
// [ParseText] never fails; unknown codes are kept verbatim.
//
// MTEXT uses backslash codes and brace groups:
//
//	\L \l \O \o \K \k   decoration on/off
//	\S1/2; \S1^2; \S1#2;  stacked fractions
//	\fArial|b1|i0;      font override
//	\Q15;               oblique angle
//	\P                  paragraph break
//	{ ... }             scoped group
//
// [ParseMText] is built on a participle grammar and returns an error for
// malformed input (unbalanced braces, unknown or unterminated codes). Callers
// are expected to fall back to the raw string in that case.
package text
