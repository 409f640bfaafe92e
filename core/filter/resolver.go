package filter

import (
	"strconv"
	"strings"
)

// Size labels grouped by shirt category. Classification checks kids first,
// then teens, and treats any other ordered size as adult.
var (
	kidsSizes = []string{"#6", "#8", "#10", "#12"}
	teenSizes = []string{"#14", "#16", "#18"}
)

// noOrderSentinels are the placeholder size labels the order form produces
// before an attendee has actually picked a shirt.
var noOrderSentinels = map[string]struct{}{
	"":            {},
	"Select Size": {},
	"None yet":    {},
	"No shirt":    {},
}

// Shirt prices keyed by size label. Printed shirts carry a flat surcharge on
// top of the plain price.
var (
	plainPrices = map[string]float64{
		"#6": 99, "#8": 99, "#10": 99, "#12": 99,
		"#14": 109, "#16": 109, "#18": 109,
		"XS": 119, "S": 119, "M": 119, "L": 119,
		"XL": 129, "2XL": 139, "3XL": 149,
	}
	printSurcharge = 30.0
)

// Derived field names understood by ResolveField. Anything else falls back to
// a direct property lookup on the record.
const (
	FieldPaymentStatus   = "paymentStatus"
	FieldPrintStatus     = "printStatus"
	FieldAmount          = "amount"
	FieldCategories      = "categories"
	FieldShirtCategory   = "shirtCategory"
	FieldMissingSize     = "missingSize"
	FieldHasShirtOrder   = "hasShirtOrder"
	FieldHasNotes        = "hasNotes"
	FieldHasTasks        = "hasTasks"
	FieldHasOverdueTasks = "hasOverdueTasks"
	FieldMissingContact  = "missingContact"
	FieldMissingInfo     = "missingInfo"
	FieldName            = "name"
)

// ResolveField maps a logical field name to a value computed from the record
// and its annotations. Known derived fields go through a closed dispatch;
// unrecognized names resolve to a raw property lookup so new record fields
// work without resolver changes. Pure function of its inputs.
func ResolveField(rec Record, field string, anns AnnotationMap) any {
	switch field {
	case FieldPaymentStatus:
		if rec["paid"] == true {
			return "paid"
		}
		return "unpaid"
	case FieldPrintStatus:
		if rec["hasPrint"] == true {
			return "withPrint"
		}
		return "plain"
	case FieldAmount:
		return shirtPrice(rec["hasPrint"] == true, recordSize(rec))
	case FieldCategories, FieldShirtCategory:
		return shirtCategory(recordSize(rec))
	case FieldMissingSize:
		return isNoOrderSize(recordSize(rec))
	case FieldHasShirtOrder:
		return !isNoOrderSize(recordSize(rec))
	case FieldHasNotes:
		return anns[rec.ID()].HasNotes
	case FieldHasTasks:
		return anns[rec.ID()].HasTasks
	case FieldHasOverdueTasks:
		ann := anns[rec.ID()]
		return ann.HasTasks && ann.IncompleteTasksCount > 0
	case FieldMissingContact:
		return stringField(rec, "email") == "" && stringField(rec, "phone") == ""
	case FieldMissingInfo:
		return stringField(rec, "firstName") == "" || stringField(rec, "lastName") == "" ||
			(stringField(rec, "email") == "" && stringField(rec, "phone") == "")
	case FieldName:
		return strings.TrimSpace(stringField(rec, "firstName") + " " + stringField(rec, "lastName"))
	default:
		return rec[field]
	}
}

// shirtPrice looks up the price for a (print flag, size label) pair. Sizes
// not in the table, including the no-order sentinels, price at 0.
func shirtPrice(hasPrint bool, size string) float64 {
	price, ok := plainPrices[size]
	if !ok {
		return 0
	}
	if hasPrint {
		return price + printSurcharge
	}
	return price
}

// shirtCategory classifies a size label into "Kids", "Teen", "Adult" or
// "No Order".
func shirtCategory(size string) string {
	if isNoOrderSize(size) {
		return "No Order"
	}
	for _, s := range kidsSizes {
		if s == size {
			return "Kids"
		}
	}
	for _, s := range teenSizes {
		if s == size {
			return "Teen"
		}
	}
	return "Adult"
}

func isNoOrderSize(size string) bool {
	_, ok := noOrderSentinels[size]
	return ok
}

func recordSize(rec Record) string {
	return stringField(rec, "shirtSize")
}

// stringField reads a record property as a string; missing or non-string
// values read as empty.
func stringField(rec Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return stringify(v)
}

// stringify renders a value the way the index and the string operators see it.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return toString(val)
	}
}
