package audit

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

const (
	auditTag = "audit"

	// NullPlaceholder 缺失值的渲染文本
	NullPlaceholder = "(null)"

	statusActive = "active"
)

// FieldFormat 审计字段的渲染方式，对应 audit 标签值
type FieldFormat string

const (
	FormatText   FieldFormat = "text"
	FormatList   FieldFormat = "list"
	FormatStatus FieldFormat = "status"
)

// Difference 单个字段的差异（已渲染）
type Difference struct {
	Field  string
	Format FieldFormat
	Old    string
	New    string
}

// AuditableFields 返回带 audit 标签的字段名，按声明顺序
func AuditableFields(v any) []string {
	if v == nil || !structs.IsStruct(v) {
		return nil
	}
	var names []string
	for _, f := range structs.New(v).Fields() {
		if f.Tag(auditTag) != "" {
			names = append(names, f.Name())
		}
	}
	return names
}

// Diff 比较 before 与 after 中指定字段的值
//
// 仅按值判断是否变化，输出顺序与 fields 一致。任一侧不是结构体时返回 nil。
func Diff(before, after any, fields []string) []Difference {
	if before == nil || after == nil || !structs.IsStruct(before) || !structs.IsStruct(after) {
		return nil
	}
	bs, as := structs.New(before), structs.New(after)

	var diffs []Difference
	for _, name := range fields {
		bf, ok := bs.FieldOk(name)
		if !ok {
			continue
		}
		af, ok := as.FieldOk(name)
		if !ok {
			continue
		}
		oldVal, newVal := bf.Value(), af.Value()
		if reflect.DeepEqual(oldVal, newVal) {
			continue
		}

		format := FieldFormat(af.Tag(auditTag))
		d := Difference{Field: name, Format: format}
		switch format {
		case FormatStatus:
			if s, ok := deref(newVal); ok && fmt.Sprint(s) == statusActive {
				d.New = "enabled"
			} else {
				d.New = "disabled"
			}
		case FormatList:
			d.Old = renderList(oldVal)
			d.New = renderList(newVal)
		default:
			d.Old = render(oldVal)
			d.New = render(newVal)
		}
		diffs = append(diffs, d)
	}
	return diffs
}

// deref 解引用指针，nil 返回 false
func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func render(v any) string {
	inner, ok := deref(v)
	if !ok {
		return NullPlaceholder
	}
	return fmt.Sprint(inner)
}

func renderList(v any) string {
	inner, ok := deref(v)
	if !ok {
		return NullPlaceholder
	}
	s := fmt.Sprint(inner)
	if s == "" {
		return NullPlaceholder
	}
	return strings.Join(strings.Split(s, ","), ", ")
}
