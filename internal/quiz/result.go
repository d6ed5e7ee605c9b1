package quiz

type Category string

const (
	CategoryPerfect Category = "perfect"
	CategoryGreat   Category = "great"
	CategoryGood    Category = "good"
	CategoryPass    Category = "pass"
	CategoryFail    Category = "fail"
)

// Categorize maps a final score onto a result category. Thresholds are
// checked top-down and compared in integer space so 3/5 is exactly 60%.
func Categorize(score, total int) Category {
	if total <= 0 {
		return CategoryFail
	}
	pct := score * 100
	switch {
	case pct == total*100:
		return CategoryPerfect
	case pct >= total*80:
		return CategoryGreat
	case pct >= total*60:
		return CategoryGood
	case pct >= total*50:
		return CategoryPass
	default:
		return CategoryFail
	}
}

func (c Category) Message() string {
	switch c {
	case CategoryPerfect:
		return "You had a perfect score. You are a Genius 👨🏾‍🏫"
	case CategoryGreat:
		return "Great Job. You know your stuff."
	case CategoryGood:
		return "Good effort, keep learning."
	case CategoryPass:
		return "You pass"
	default:
		return "You are a failure"
	}
}

// Percentage is the whole-number share of correct answers.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score * 100) / total
}

// ProgressPercent is how far through the quiz the given question sits,
// counting only questions already passed.
func ProgressPercent(index, total int) int {
	if total <= 0 {
		return 0
	}
	if index > total {
		index = total
	}
	return (index * 100) / total
}
