// Пакет model — доменные модели Dashboard Module.
// Subject — закрытый набор предметов обучающей платформы.
package model

// Subject — предмет обучения. Закрытый набор значений,
// используется как сегмент ключа per-subject кэшей.
type Subject string

// Допустимые предметы.
const (
	SubjectMath    Subject = "math"
	SubjectEnglish Subject = "english"
	SubjectEssay   Subject = "essay"
)

// AllSubjects возвращает полный список предметов.
func AllSubjects() []Subject {
	return []Subject{SubjectMath, SubjectEnglish, SubjectEssay}
}

// IsValid проверяет, входит ли предмет в закрытый набор.
func (s Subject) IsValid() bool {
	switch s {
	case SubjectMath, SubjectEnglish, SubjectEssay:
		return true
	}
	return false
}

// String возвращает строковое представление предмета.
func (s Subject) String() string {
	return string(s)
}
