package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Синтаксические
	SynInfo                    Code = 2000
	SynUnexpectedTopLevel      Code = 2001
	SynExpectIdentifier        Code = 2002
	SynExpectLBrace            Code = 2003
	SynExpectRBrace            Code = 2004
	SynExpectType              Code = 2005
	SynUnclosedParen           Code = 2006
	SynMultiplePayloads        Code = 2007
	SynNamedFieldsNotSupported Code = 2008
	SynUnknownAnnotation       Code = 2009
	SynExpectLevelKeyword      Code = 2010
	SynExpectRBracket          Code = 2011
	SynDuplicateVariant        Code = 2012

	// Классификация вариантов
	ClsInfo                Code = 3000
	ClsUnknownLevelKeyword Code = 3001
	ClsMissingAnnotation   Code = 3002
	ClsIneligiblePayload   Code = 3003

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Генерация
	GenInfo          Code = 5000
	GenWriteFailed   Code = 5001
	GenUnknownImport Code = 5002
	GenFormatFailed  Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexInfo:               "lexer info",
	LexUnknownChar:        "unknown character",
	LexUnterminatedString: "unterminated string literal",
	LexBadNumber:          "malformed number literal",

	SynInfo:                    "parser info",
	SynUnexpectedTopLevel:      "unexpected top-level construct",
	SynExpectIdentifier:        "identifier expected",
	SynExpectLBrace:            "'{' expected",
	SynExpectRBrace:            "'}' expected",
	SynExpectType:              "type expected",
	SynUnclosedParen:           "unclosed '('",
	SynMultiplePayloads:        "variant carries more than one payload value",
	SynNamedFieldsNotSupported: "named payload fields are not supported",
	SynUnknownAnnotation:       "unknown annotation",
	SynExpectLevelKeyword:      "level keyword expected",
	SynExpectRBracket:          "']' expected",
	SynDuplicateVariant:        "duplicate variant name",

	ClsInfo:                "classification info",
	ClsUnknownLevelKeyword: "unknown level keyword",
	ClsMissingAnnotation:   "variant needs a report annotation",
	ClsIneligiblePayload:   "payload shape cannot delegate classification",

	IOLoadFileError: "failed to load file",

	GenInfo:          "generator info",
	GenWriteFailed:   "failed to write generated file",
	GenUnknownImport: "no import path mapped for qualifier",
	GenFormatFailed:  "generated source failed gofmt",

	ObsInfo:    "observability info",
	ObsTimings: "phase timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CLS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
