// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolver

import (
	"github.com/gx-org/cause/build/crumbs"
	"github.com/gx-org/cause/build/tags"
	"github.com/gx-org/cause/build/types"
)

// inferred returns the inferred type of a node given one of its tags.
// It returns false if the tag does not determine the type yet.
func (r *resolver) inferred(c crumbs.Crumbs, tag tags.Tag) (types.Value, bool) {
	switch t := tag.(type) {
	case tags.ValueComesFrom:
		return r.valueOf(t.Source)
	case tags.Calls:
		return r.call(c, t.Callee)
	case tags.Causes:
		return r.cause(t.Signal)
	case tags.NamedValue:
		return r.namedValue(t)
	case tags.IsFunction:
		return r.function(c, t)
	case tags.IsPrimitiveValue:
		return types.Resolved(types.Primitive{Kind: t.Primitive}), true
	case tags.ReferencesFile:
		return r.referencesFile(t)
	case tags.BadFileReference:
		return errored(types.ImportPathInvalid{Path: t.Path, Reason: t.Reason})
	case tags.ReferenceNotInScope:
		return errored(types.NotInScope{Name: t.Name})
	}
	return types.Value{}, false
}

// expected returns the expected type of a node given one of its tags.
func (r *resolver) expected(c crumbs.Crumbs, tag tags.Tag) (types.Value, bool) {
	switch t := tag.(type) {
	case tags.BasicConstraint:
		return r.constraint(c, t)
	}
	return types.Value{}, false
}

func (r *resolver) valueOf(src crumbs.Crumbs) (types.Value, bool) {
	v := r.typeOf(src)
	if v.IsPending() {
		return v, false
	}
	if v.Err() != nil {
		return proxy(src), true
	}
	return v, true
}

// instanceTypeOf returns the type of the values described by a type annotation.
func (r *resolver) instanceTypeOf(annotation crumbs.Crumbs) (types.Type, types.Value, bool) {
	v := r.typeOf(annotation)
	if v.IsPending() {
		return nil, v, false
	}
	if v.Err() != nil {
		return nil, proxy(annotation), true
	}
	typ, _ := v.Type()
	inst, ok := types.InstanceType(typ)
	if !ok {
		return nil, types.Errored(types.NotATypeReference{Actual: typ}), true
	}
	return inst, types.Value{}, true
}

func (r *resolver) namedValue(t tags.NamedValue) (types.Value, bool) {
	if t.TypeAnnotation == nil {
		return r.valueOf(t.Value)
	}
	inst, failed, ok := r.instanceTypeOf(*t.TypeAnnotation)
	if !ok {
		return failed, false
	}
	if inst == nil {
		if err := failed.Err(); err != nil && !types.IsProxy(err) {
			// The constraint on the value reports the error.
			return proxy(t.Value), true
		}
		return failed, true
	}
	return types.Resolved(inst), true
}

func (r *resolver) constraint(c crumbs.Crumbs, t tags.BasicConstraint) (types.Value, bool) {
	expected, failed, ok := r.instanceTypeOf(t.TypeAnnotation)
	if !ok {
		return failed, false
	}
	if expected == nil {
		return failed, true
	}
	v := r.load(Inferred, c)
	if v.IsPending() {
		return v, false
	}
	if v.Err() != nil {
		return proxy(c), true
	}
	actual, _ := v.Type()
	if !assignable(expected, actual) {
		return errored(types.MismatchedType{Expected: expected, Actual: actual})
	}
	return types.Resolved(expected), true
}

func (r *resolver) function(c crumbs.Crumbs, t tags.IsFunction) (types.Value, bool) {
	returns := tags.FindAll[tags.FunctionCanReturnTypeOf](r.graph, c)
	fn := &types.Function{Name: t.Name}
	if len(returns) != 1 {
		fn.Return = types.Errored(types.ImplementationTodo{Description: "cannot infer the type of a function returning from multiple locations"})
		return types.Resolved(fn), true
	}
	ret := returns[0].Return
	v := r.typeOf(ret)
	if v.IsPending() {
		return v, false
	}
	fn.Return = v
	if v.Err() != nil {
		fn.Return = proxy(ret)
	}
	return types.Resolved(fn), true
}

type argsState int

const (
	argsPending argsState = iota
	argsFailed
	argsOK
)

// checkArguments checks the arguments of a call against the parameters of
// its callee.
func (r *resolver) checkArguments(call crumbs.Crumbs, params []types.Param) (types.Value, argsState) {
	args := tags.FindAll[tags.CallsWithArgument](r.graph, call)
	vals := make([]types.Value, len(args))
	pending := false
	for i, arg := range args {
		vals[i] = r.typeOf(arg.Argument)
		pending = pending || vals[i].IsPending()
	}
	if pending {
		return types.Value{}, argsPending
	}
	for i, arg := range args {
		if vals[i].Err() != nil {
			return proxy(arg.Argument), argsFailed
		}
	}
	if len(args) < len(params) {
		var names []string
		for _, p := range params[len(args):] {
			names = append(names, p.Name)
		}
		return types.Errored(types.MissingArguments{Names: names}), argsFailed
	}
	if len(args) > len(params) {
		return types.Errored(types.ExcessArguments{Expected: len(params)}), argsFailed
	}
	for i, param := range params {
		actual, _ := vals[i].Type()
		if !assignable(param.Type, actual) {
			return types.Errored(types.MismatchedType{Expected: param.Type, Actual: actual}), argsFailed
		}
	}
	return types.Value{}, argsOK
}

func (r *resolver) call(c, callee crumbs.Crumbs) (types.Value, bool) {
	v := r.typeOf(callee)
	if v.IsPending() {
		return v, false
	}
	if v.Err() != nil {
		return proxy(callee), true
	}
	typ, _ := v.Type()
	switch ct := typ.(type) {
	case *types.Function:
		failed, state := r.checkArguments(c, ct.Params)
		switch state {
		case argsPending:
			return failed, false
		case argsFailed:
			return failed, true
		}
		if ct.Return.IsPending() {
			return ct.Return, false
		}
		if ct.Return.Err() != nil {
			return proxy(callee), true
		}
		return ct.Return, true
	case types.TypeReference:
		sig, ok := r.canonical.Load(ct.ID)
		if !ok {
			return errored(types.ImplementationTodo{Description: "unknown canonical type " + ct.ID.String()})
		}
		failed, state := r.checkArguments(c, sig.Params)
		switch state {
		case argsPending:
			return failed, false
		case argsFailed:
			return failed, true
		}
		return types.Resolved(types.Instance{ID: ct.ID}), true
	}
	return errored(types.NotCallable{Actual: typ})
}

func (r *resolver) cause(signal crumbs.Crumbs) (types.Value, bool) {
	v := r.typeOf(signal)
	if v.IsPending() {
		return v, false
	}
	if v.Err() != nil {
		return proxy(signal), true
	}
	typ, _ := v.Type()
	inst, ok := typ.(types.Instance)
	if !ok {
		return errored(types.NotCausable{Actual: typ})
	}
	sig, ok := r.canonical.Load(inst.ID)
	if !ok {
		return errored(types.ImplementationTodo{Description: "unknown canonical type " + inst.ID.String()})
	}
	return types.Resolved(sig.Result), true
}

func (r *resolver) referencesFile(t tags.ReferencesFile) (types.Value, bool) {
	if t.ExportName == "" {
		return errored(types.ImplementationTodo{Description: "files used as values"})
	}
	file, ok := r.external[t.Path]
	if !ok {
		return errored(types.FileNotFound{Path: t.Path})
	}
	v, ok := file.Exports.Load(t.ExportName)
	if !ok {
		return errored(types.ExportNotFound{Path: t.Path, Name: t.ExportName})
	}
	if v.IsPending() {
		return errored(types.NeverResolved{})
	}
	if err := v.Err(); err != nil && !types.IsProxy(err) {
		return types.Errored(types.ProxyError{Path: t.Path}), true
	}
	return v, true
}
