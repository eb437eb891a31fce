package quran

// SurahCount is the number of surahs in the reference table.
const SurahCount = 114

// Surah pairs a surah number with its canonical transliterated name.
type Surah struct {
	Number int
	Name   string
}

var surahNames = [SurahCount]string{
	"Al-Fatihah", "Al-Baqarah", "Aal-E-Imran", "An-Nisa", "Al-Maidah",
	"Al-An'am", "Al-A'raf", "Al-Anfal", "At-Tawbah", "Yunus",
	"Hud", "Yusuf", "Ar-Ra'd", "Ibrahim", "Al-Hijr",
	"An-Nahl", "Al-Isra", "Al-Kahf", "Maryam", "Taha",
	"Al-Anbiya", "Al-Hajj", "Al-Mu'minun", "An-Nur", "Al-Furqan",
	"Ash-Shu'ara", "An-Naml", "Al-Qasas", "Al-Ankabut", "Ar-Rum",
	"Luqman", "As-Sajdah", "Al-Ahzab", "Saba", "Fatir",
	"Ya-Sin", "As-Saffat", "Sad", "Az-Zumar", "Ghafir",
	"Fussilat", "Ash-Shura", "Az-Zukhruf", "Ad-Dukhan", "Al-Jathiya",
	"Al-Ahqaf", "Muhammad", "Al-Fath", "Al-Hujurat", "Qaf",
	"Adh-Dhariyat", "At-Tur", "An-Najm", "Al-Qamar", "Ar-Rahman",
	"Al-Waqia", "Al-Hadid", "Al-Mujadila", "Al-Hashr", "Al-Mumtahina",
	"As-Saff", "Al-Jumu'a", "Al-Munafiqun", "At-Taghabun", "At-Talaq",
	"At-Tahrim", "Al-Mulk", "Al-Qalam", "Al-Haqqa", "Al-Ma'arij",
	"Nuh", "Al-Jinn", "Al-Muzzammil", "Al-Muddathir", "Al-Qiyama",
	"Al-Insan", "Al-Mursalat", "An-Naba", "An-Nazi'at", "Abasa",
	"At-Takwir", "Al-Infitar", "Al-Mutaffifin", "Al-Inshiqaq", "Al-Buruj",
	"At-Tariq", "Al-A'la", "Al-Ghashiya", "Al-Fajr", "Al-Balad",
	"Ash-Shams", "Al-Lail", "Ad-Duhaa", "Ash-Sharh", "At-Tin",
	"Al-Alaq", "Al-Qadr", "Al-Bayyina", "Az-Zalzala", "Al-Adiyat",
	"Al-Qaria", "At-Takathur", "Al-Asr", "Al-Humaza", "Al-Fil",
	"Quraish", "Al-Ma'un", "Al-Kawthar", "Al-Kafiroon", "An-Nasr",
	"Al-Masad", "Al-Ikhlas", "Al-Falaq", "An-Nas",
}

// surahIndex is built once at init and only read afterwards.
var surahIndex = buildSurahIndex()

func buildSurahIndex() map[int]string {
	index := make(map[int]string, SurahCount)
	for i, name := range surahNames {
		index[i+1] = name
	}
	return index
}

// SurahName returns the canonical name for a surah number. The boolean is
// false when the number is outside 1..114.
func SurahName(number int) (string, bool) {
	name, ok := surahIndex[number]
	return name, ok
}

// Surahs returns the reference table in surah order.
func Surahs() []Surah {
	result := make([]Surah, 0, SurahCount)
	for i, name := range surahNames {
		result = append(result, Surah{Number: i + 1, Name: name})
	}
	return result
}
