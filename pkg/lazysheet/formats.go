package lazysheet

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberFormat is one of the built-in spreadsheet number format ids.
type NumberFormat int

const (
	FormatGeneral                 NumberFormat = 0  // General
	FormatInteger                 NumberFormat = 1  // 0
	FormatDecimal                 NumberFormat = 2  // 0.00
	FormatIntegerWithComma        NumberFormat = 3  // #,##0
	FormatDecimalWithComma        NumberFormat = 4  // #,##0.00
	FormatPercentage              NumberFormat = 9  // 0%
	FormatDecimalPercentage       NumberFormat = 10 // 0.00%
	FormatScientific              NumberFormat = 11 // 0.00E+00
	FormatFractionApproximate     NumberFormat = 12 // # ?/?
	FormatFractionExact           NumberFormat = 13 // # ??/??
	FormatDate                    NumberFormat = 14 // d/m/yyyy
	FormatDayMonthAsTextYear      NumberFormat = 15 // d-mmm-yy
	FormatDayMonthAsText          NumberFormat = 16 // d-mmm
	FormatMonthAsTextYear         NumberFormat = 17 // mmm-yy
	FormatTime12Hour              NumberFormat = 18 // h:mm AM/PM
	FormatTime12HourWithSeconds   NumberFormat = 19 // h:mm:ss AM/PM
	FormatTime24Hour              NumberFormat = 20 // h:mm
	FormatTime24HourWithSeconds   NumberFormat = 21 // h:mm:ss
	FormatDateTime                NumberFormat = 22 // m/d/yyyy h:mm
	FormatAccountingInteger       NumberFormat = 37 // #,##0 ;(#,##0)
	FormatAccountingIntegerRed    NumberFormat = 38 // #,##0 ;[Red](#,##0)
	FormatAccountingDecimal       NumberFormat = 39 // #,##0.00;(#,##0.00)
	FormatAccountingDecimalRed    NumberFormat = 40 // #,##0.00;[Red](#,##0.00)
	FormatMinuteSecond            NumberFormat = 45 // mm:ss
	FormatElapsedHourMinuteSecond NumberFormat = 46 // [h]:mm:ss
	FormatMinuteSecondTenths      NumberFormat = 47 // mmss.0
	FormatEngineering             NumberFormat = 48 // ##0.0E+0
	FormatText                    NumberFormat = 49 // @
)

var numberFormatNames = map[string]NumberFormat{
	"general":                 FormatGeneral,
	"integer":                 FormatInteger,
	"decimal":                 FormatDecimal,
	"integerwithcomma":        FormatIntegerWithComma,
	"decimalwithcomma":        FormatDecimalWithComma,
	"percentage":              FormatPercentage,
	"decimalpercentage":       FormatDecimalPercentage,
	"scientific":              FormatScientific,
	"fractionapproximate":     FormatFractionApproximate,
	"fractionexact":           FormatFractionExact,
	"date":                    FormatDate,
	"daymonthastextyear":      FormatDayMonthAsTextYear,
	"daymonthastext":          FormatDayMonthAsText,
	"monthastextyear":         FormatMonthAsTextYear,
	"time12hour":              FormatTime12Hour,
	"time12hourwithseconds":   FormatTime12HourWithSeconds,
	"time24hour":              FormatTime24Hour,
	"time24hourwithseconds":   FormatTime24HourWithSeconds,
	"datetime":                FormatDateTime,
	"accountinginteger":       FormatAccountingInteger,
	"accountingintegerred":    FormatAccountingIntegerRed,
	"accountingdecimal":       FormatAccountingDecimal,
	"accountingdecimalred":    FormatAccountingDecimalRed,
	"minutesecond":            FormatMinuteSecond,
	"elapsedhourminutesecond": FormatElapsedHourMinuteSecond,
	"minutesecondtenths":      FormatMinuteSecondTenths,
	"engineering":             FormatEngineering,
	"text":                    FormatText,
}

// ParseNumberFormat resolves a format given either as its numeric id ("4")
// or its name ("DecimalWithComma", case-insensitive).
func ParseNumberFormat(s string) (NumberFormat, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		if id < 0 || id > 49 {
			return 0, fmt.Errorf("number format id %d out of range", id)
		}
		return NumberFormat(id), nil
	}
	if f, ok := numberFormatNames[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown number format %q", s)
}

// Custom number format codes for use with ColumnBuilder.CustomFormat or the
// format tag option. Boolean codes expect the cell to hold 1 or 0.
const (
	CellFormatAccountingGBP = `_-"£"* #,##0.00_-;\-"£"* #,##0.00_-;_-"£"* "-"??_-;_-@_-`
	CellFormatAccountingUSD = `_-[$$-409]* #,##0.00_ ;_-[$$-409]* \-#,##0.00\ ;_-[$$-409]* "-"??_ ;_-@_ `
	CellFormatAccountingEUR = `_-[$€-2]\ * #,##0.00_-;\-[$€-2]\ * #,##0.00_-;_-[$€-2]\ * "-"??_-;_-@_-`

	CellFormatBooleanYN        = `"Y";;"N";`
	CellFormatBooleanNOnly     = `[=0]"N";`
	CellFormatBooleanYOnly     = `[=1]"Y";`
	CellFormatBooleanYesNo     = `"YES";;"NO";`
	CellFormatBooleanNoOnly    = `[=0]"NO";`
	CellFormatBooleanYesOnly   = `[=1]"YES";`
	CellFormatBooleanTickCross = "\"✔️\";;\"✖️\";"
	CellFormatBooleanTickOnly  = "[=1]\"✔️\";"
	CellFormatBooleanCrossOnly = "[=0]\"✖️\";"

	CellFormatCurrencyGBP = `"£"#,##0.00`
	CellFormatCurrencyUSD = `[$$-409]#,##0.00`
	CellFormatCurrencyEUR = `[$€-2]\ #,##0.00`

	CellFormatDate     = "dd/mm/yyyy"
	CellFormatDateTime = "dd/mm/yyyy HH:mm"
	CellFormatLongDate = `[$-F800]dddd\,\ mmmm\ dd\,\ yyyy`
	CellFormatTime     = `[$-F400]h:mm:ss\ AM/PM`
)

// MIME types and file extensions of the spreadsheet package flavours.
const (
	ContentTypeWorkbook             = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeTemplate             = "application/vnd.openxmlformats-officedocument.spreadsheetml.template"
	ContentTypeMacroEnabledWorkbook = "application/vnd.ms-excel.sheet.macroenabled.12"
	ContentTypeMacroEnabledTemplate = "application/vnd.ms-excel.template.macroenabled.12"

	ExtensionWorkbook             = ".xlsx"
	ExtensionTemplate             = ".xltx"
	ExtensionMacroEnabledWorkbook = ".xlsm"
	ExtensionMacroEnabledTemplate = ".xltm"
)
