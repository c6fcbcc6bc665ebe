package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DocumentNumber formats the displayed number: {PREFIX}-{YYYYMM}-{seq:03d}.
func DocumentNumber(kind Kind, date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", kind.Prefix(), date.Format("200601"), seq)
}

// SequenceFromNumber returns the numeric suffix of a displayed number.
// Malformed numbers yield 1.
func SequenceFromNumber(number string) int {
	parts := strings.Split(number, "-")
	if len(parts) < 3 {
		return 1
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FinancialYear returns the start year of the April–March fiscal year containing date.
func FinancialYear(date time.Time) int {
	if date.Month() < time.April {
		return date.Year() - 1
	}
	return date.Year()
}

// FinancialYearNumber relabels an invoice number for print, e.g.
// INV-202502-007 dated 2025-02-10 becomes INV_007/2024-25.
func FinancialYearNumber(number string, date time.Time) string {
	suffix := "001"
	if i := strings.LastIndex(number, "-"); i >= 0 && i < len(number)-1 {
		suffix = number[i+1:]
	}
	start := FinancialYear(date)
	end := strconv.Itoa(start + 1)
	return fmt.Sprintf("INV_%s/%d-%s", suffix, start, end[len(end)-2:])
}

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every non-digit character.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FileName builds {PREFIX}_{YYYYMMDD}_{seq:06d}_{phoneDigits}.pdf.
func FileName(kind Kind, date time.Time, seq int, phone string) string {
	return fmt.Sprintf("%s_%s_%06d_%s.pdf", kind.Prefix(), date.Format("20060102"), seq, Digits(phone))
}

var fileNamePattern = regexp.MustCompile(`^(INV|QUO)_(\d{8})_(\d+)_(\d*)\.pdf$`)

type FileInfo struct {
	Kind     Kind
	Date     time.Time
	Sequence int
	Phone    string
}

// ParseFileName reverses FileName.
func ParseFileName(name string) (FileInfo, error) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return FileInfo{}, fmt.Errorf("file name %q does not match export format", name)
	}
	kind := Invoice
	if m[1] == Quotation.Prefix() {
		kind = Quotation
	}
	date, err := time.Parse("20060102", m[2])
	if err != nil {
		return FileInfo{}, fmt.Errorf("file name %q: %w", name, err)
	}
	seq, err := strconv.Atoi(m[3])
	if err != nil {
		return FileInfo{}, fmt.Errorf("file name %q: %w", name, err)
	}
	return FileInfo{Kind: kind, Date: date, Sequence: seq, Phone: m[4]}, nil
}
