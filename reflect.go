// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection
// must implement. See MakePart.
//
type Updater interface {
	Update(*Circuit)
}

// MakePart builds a part specification from an Updater. Input and output
// pins are identified by field tags on the Updater's struct type and the
// corresponding fields are set to the allocated pin numbers when the part is
// mounted.
//
// The field tag must be `hw:"in"` or `hw:"out"` to mark a field as an input
// or output pin. By default, the pin name is the field name in lowercase. A
// specific pin name can be forced by adding it to the tag: `hw:"in,pin_name"`.
//
// Pin fields must be of type int. Buses must be arrays of int.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	sp := &PartSpec{
		Name: typ.Name(),
	}

	for i, n := 0, typ.NumField(); i < n; i++ {
		f := typ.Field(i)
		pin, isInput, ok := pinField(f)
		if !ok {
			continue
		}
		ft := f.Type
		if k := ft.Kind(); k == reflect.Array && ft.Elem().Kind() == reflect.Int {
			// bus
			for j := 0; j < ft.Len(); j++ {
				if isInput {
					sp.Inputs = append(sp.Inputs, busPinName(pin, j))
				} else {
					sp.Outputs = append(sp.Outputs, busPinName(pin, j))
				}
			}
		} else if k == reflect.Int {
			// pin
			if isInput {
				sp.Inputs = append(sp.Inputs, pin)
			} else {
				sp.Outputs = append(sp.Outputs, pin)
			}
		} else {
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
	}
	sp.Mount = mountPart(typ)
	return sp
}

// pinField returns the pin name and direction of a tagged struct field.
//
func pinField(f reflect.StructField) (pin string, isInput bool, ok bool) {
	tag, ok := f.Tag.Lookup("hw")
	if !ok {
		return "", false, false
	}
	pin = strings.ToLower(f.Name)
	tv := strings.Split(tag, ",")
	if len(tv) > 1 && tv[1] != "" {
		pin = tv[1]
	}
	switch tv[0] {
	case "in":
		isInput = true
	case "out":
	default:
		panic(errors.Errorf("unsupported tag %q for field %q", tag, f.Name))
	}
	return pin, isInput, true
}

func mountPart(typ reflect.Type) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for i, n := 0, typ.NumField(); i < n; i++ {
			f := typ.Field(i)
			pin, _, ok := pinField(f)
			if !ok {
				continue
			}
			fv := e.Field(i)
			ft := f.Type
			if k := ft.Kind(); k == reflect.Array && ft.Elem().Kind() == reflect.Int {
				// bus
				for j := 0; j < fv.Len(); j++ {
					fv.Index(j).SetInt(int64(s.Pin(busPinName(pin, j))))
				}
			} else if k == reflect.Int {
				// pin
				fv.SetInt(int64(s.Pin(pin)))
			}
		}
		return []Component{v.Interface().(Updater).Update}
	}
}
