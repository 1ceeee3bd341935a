package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1001
	LexStrayQuote         Code = 1002

	// Структурные (дерево блоков)
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnclosedBlock   Code = 2002
	SynTopLevelPair    Code = 2003
	SynNestingTooDeep  Code = 2004
	SynExpectValue     Code = 2005

	// Извлечение типизированных структур
	ExtInfo         Code = 3000
	ExtMissingField Code = 3001
	ExtInvalidValue Code = 3002
	ExtUnknownBlock Code = 3003

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
	IOEncodingError Code = 4003

	// Наблюдаемость
	ObsInfo    Code = 5000
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexInfo:               "Lexical information",
		LexUnterminatedString: "Unterminated quoted string",
		LexStrayQuote:         "Quote inside bare token",
		SynInfo:               "Syntax information",
		SynUnexpectedToken:    "Unexpected token",
		SynUnclosedBlock:      "Unclosed block",
		SynTopLevelPair:       "Key/value pair outside of a block",
		SynNestingTooDeep:     "Blocks nested too deep",
		SynExpectValue:        "Expected value after key",
		ExtInfo:               "Extraction information",
		ExtMissingField:       "Missing required field",
		ExtInvalidValue:       "Invalid field value",
		ExtUnknownBlock:       "Unknown top-level block",
		IOInfo:                "I/O information",
		IOLoadFileError:       "I/O load file error",
		IOCacheError:          "Cache read/write error",
		IOEncodingError:       "Cannot decode file contents",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EXT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
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
