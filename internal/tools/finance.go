package tools

import (
	"math"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

func financeTools() []Tool {
	return []Tool{
		{
			Name:     "loan",
			Title:    "Loan Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "amount", Label: "Loan amount ($)", Default: "10000"},
				{Key: "rate", Label: "Annual interest rate (%)", Default: "5"},
				{Key: "years", Label: "Term (years)", Default: "5"},
			},
			compute: loan,
		},
		{
			Name:     "mortgage",
			Title:    "Mortgage Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "price", Label: "Home price ($)", Default: "300000"},
				{Key: "down", Label: "Down payment ($)", Default: "60000"},
				{Key: "rate", Label: "Annual interest rate (%)", Default: "6.5"},
				{Key: "years", Label: "Term (years)", Default: "30"},
			},
			compute: mortgage,
		},
		{
			Name:     "compound-interest",
			Title:    "Compound Interest Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "principal", Label: "Principal ($)", Default: "1000"},
				{Key: "rate", Label: "Annual rate (%)", Default: "5"},
				{Key: "years", Label: "Years", Default: "10"},
				{Key: "n", Label: "Compounds per year", Default: "12", Options: []string{"1", "2", "4", "12", "365"}},
			},
			compute: compoundInterest,
		},
		{
			Name:     "tax",
			Title:    "Tax Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "price", Label: "Price ($)", Default: "100"},
				{Key: "rate", Label: "Tax rate (%)", Default: "8"},
			},
			compute: tax,
		},
		{
			Name:     "discount",
			Title:    "Discount & Markup Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "price", Label: "Original price ($)", Default: "100"},
				{Key: "percent", Label: "Percent (%)", Default: "20"},
				{Key: "type", Label: "Type", Default: "discount", Options: []string{"discount", "markup"}},
			},
			compute: discount,
		},
		{
			Name:     "salary",
			Title:    "Salary Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "annual", Label: "Annual salary ($)", Default: "60000"},
				{Key: "frequency", Label: "Frequency", Default: "monthly", Options: []string{"monthly", "weekly", "daily"}},
			},
			compute: salary,
		},
		{
			Name:     "tip",
			Title:    "Tip Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "bill", Label: "Bill amount ($)", Default: "50"},
				{Key: "percent", Label: "Tip (%)", Default: "15"},
				{Key: "split", Label: "Split between", Default: "1"},
			},
			compute: tip,
		},
		{
			Name:     "depreciation",
			Title:    "Depreciation Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "cost", Label: "Asset cost ($)", Default: "10000"},
				{Key: "salvage", Label: "Salvage value ($)", Default: "1000"},
				{Key: "years", Label: "Useful life (years)", Default: "5"},
			},
			compute: depreciation,
		},
		{
			Name:     "revenue-profit",
			Title:    "Revenue / Profit Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "revenue", Label: "Revenue ($)", Default: "50000"},
				{Key: "cost", Label: "Cost ($)", Default: "35000"},
			},
			compute: revenueProfit,
		},
		{
			Name:     "savings",
			Title:    "Savings & Investment Calculator",
			Category: Finance,
			Fields: []Field{
				{Key: "goal", Label: "Savings goal ($)", Default: "10000"},
				{Key: "contribution", Label: "Monthly contribution ($)", Default: "500"},
			},
			compute: savings,
		},
	}
}

// monthlyPayment amortizes principal over n monthly payments at monthly
// rate i.
func monthlyPayment(principal, i, n float64) float64 {
	if i == 0 {
		return principal / n
	}
	growth := math.Pow(1+i, n)
	return principal * (i * growth) / (growth - 1)
}

func loan(_ *env, in values) []Line {
	p := in.float("amount")
	rate := in.float("rate") / 100
	years := in.float("years")
	if anyNaN(p, rate, years) || p <= 0 || years <= 0 {
		return []Line{line("Monthly Payment", "$0.00"), line("Total Interest", "$0.00")}
	}
	n := years * 12
	payment := monthlyPayment(p, rate/12, n)
	return []Line{
		line("Monthly Payment", currency(payment)),
		line("Total Interest", currency(payment*n-p)),
	}
}

func mortgage(_ *env, in values) []Line {
	p := orZero(in.float("price")) - orZero(in.float("down"))
	rate := in.float("rate") / 100
	years := in.float("years")
	if anyNaN(rate, years) || p <= 0 || years <= 0 {
		return []Line{line("Principal", currency(math.Max(p, 0))), line("Monthly Payment", "$0.00")}
	}
	return []Line{
		line("Principal", currency(p)),
		line("Monthly Payment", currency(monthlyPayment(p, rate/12, years*12))),
	}
}

func compoundInterest(_ *env, in values) []Line {
	p := in.float("principal")
	r := in.float("rate") / 100
	t := in.float("years")
	n := in.float("n")
	if anyNaN(p, r, t) || p <= 0 || t <= 0 {
		return []Line{line("Future Value", "$0.00")}
	}
	return []Line{line("Future Value", currency(p*math.Pow(1+r/n, n*t)))}
}

func tax(_ *env, in values) []Line {
	price, rate := in.float("price"), in.float("rate")
	if anyNaN(price, rate) || price < 0 || rate < 0 {
		return []Line{line("Tax", "$0.00"), line("Total", "$0.00")}
	}
	amount := price * (rate / 100)
	return []Line{line("Tax", currency(amount)), line("Total", currency(price+amount))}
}

func discount(_ *env, in values) []Line {
	price, percent := in.float("price"), in.float("percent")
	if anyNaN(price, percent) || price < 0 {
		return []Line{line("Final Price", "$0.00"), line("Saved/Added", "$0.00")}
	}
	adjustment := price * (percent / 100)
	if in["type"] == "discount" {
		return []Line{line("Final Price", currency(price-adjustment)), line("Saved", currency(adjustment))}
	}
	return []Line{line("Final Price", currency(price+adjustment)), line("Added", currency(adjustment))}
}

func salary(_ *env, in values) []Line {
	annual := in.float("annual")
	if math.IsNaN(annual) || annual < 0 {
		return []Line{line("Pay", "$0.00")}
	}
	var result float64
	switch in["frequency"] {
	case "monthly":
		result = annual / 12
	case "weekly":
		result = annual / 52
	case "daily":
		result = annual / 260
	}
	return []Line{line("Pay", currency(result))}
}

func tip(_ *env, in values) []Line {
	bill, percent, split := in.float("bill"), in.float("percent"), in.int("split")
	if anyNaN(bill, percent, split) || bill < 0 || percent < 0 || split < 1 {
		return []Line{line("Tip", "$0.00"), line("Total Per Person", "$0.00")}
	}
	amount := bill * (percent / 100)
	return []Line{line("Tip", currency(amount)), line("Total Per Person", currency((bill+amount)/split))}
}

func depreciation(_ *env, in values) []Line {
	cost, salvage, years := in.float("cost"), in.float("salvage"), in.float("years")
	if anyNaN(cost, salvage, years) || cost < 0 || salvage < 0 || years <= 0 {
		return []Line{line("Annual Depreciation", "$0.00")}
	}
	return []Line{line("Annual Depreciation", currency((cost-salvage)/years))}
}

func revenueProfit(_ *env, in values) []Line {
	revenue, cost := in.float("revenue"), in.float("cost")
	if anyNaN(revenue, cost) || revenue < 0 || cost < 0 {
		return []Line{line("Profit", "$0.00"), line("Profit Margin", "0.00%")}
	}
	profit := revenue - cost
	margin := 0.0
	if revenue != 0 {
		margin = profit / revenue * 100
	}
	return []Line{line("Profit", currency(profit)), line("Profit Margin", jsnum.ToFixed(margin, 2)+"%")}
}

func savings(_ *env, in values) []Line {
	goal, contribution := in.float("goal"), in.float("contribution")
	if anyNaN(goal, contribution) || goal <= 0 || contribution <= 0 {
		return []Line{line("Time to Goal", "0 Months")}
	}
	return []Line{line("Time to Goal", jsnum.Format(math.Ceil(goal/contribution))+" Months")}
}
