// Copyright 2020 Google Inc. All rights reserved.
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

// Package bserrors is the error-kind catalogue of the split-generation core
// (spec.md §7). The core's named failure kinds are reported as one of the
// three error types below (InvalidBundleError, CommandExecutionError,
// IllegalArgumentError); the packaging layer above the core is expected to
// switch on their Kind field rather than on error string matching.
package bserrors

import "fmt"

// InvalidBundleKind enumerates schema-level input errors.
type InvalidBundleKind string

const (
	UnrecognizedSplitDimension       InvalidBundleKind = "UnrecognizedSplitDimension"
	DuplicateSplitDimension          InvalidBundleKind = "DuplicateSplitDimension"
	InvalidGlob                      InvalidBundleKind = "InvalidGlob"
	InvalidVersion                   InvalidBundleKind = "InvalidVersion"
	UndefinedPinnedResource          InvalidBundleKind = "UndefinedPinnedResource"
	InvalidSuffixStrippingDimension  InvalidBundleKind = "InvalidSuffixStrippingDimension"
	InvalidDefaultSuffix             InvalidBundleKind = "InvalidDefaultSuffix"
	InvalidRuntimeEnabledSdkConfig   InvalidBundleKind = "InvalidRuntimeEnabledSdkConfig"
	DuplicateRuntimeEnabledSdkConfig InvalidBundleKind = "DuplicateRuntimeEnabledSdkConfig"
	UnrecognizedAbi                  InvalidBundleKind = "UnrecognizedAbi"
)

// InvalidBundleError reports a malformed input bundle or configuration.
type InvalidBundleError struct {
	Kind    InvalidBundleKind
	Message string
}

func (e *InvalidBundleError) Error() string {
	return fmt.Sprintf("invalid bundle [%s]: %s", e.Kind, e.Message)
}

func NewInvalidBundle(kind InvalidBundleKind, format string, args ...interface{}) error {
	return &InvalidBundleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CommandExecutionKind enumerates runtime failures of an otherwise
// well-formed bundle.
type CommandExecutionKind string

const (
	TargetsPreL               CommandExecutionKind = "TargetsPreL"
	NoCompatibleNativeLibs    CommandExecutionKind = "NoCompatibleNativeLibs"
	InconsistentMasterMutators CommandExecutionKind = "InconsistentMasterMutators"
)

// CommandExecutionError reports a runtime failure encountered while
// generating splits from an otherwise well-formed bundle.
type CommandExecutionError struct {
	Kind    CommandExecutionKind
	Message string
}

func (e *CommandExecutionError) Error() string {
	return fmt.Sprintf("command execution failed [%s]: %s", e.Kind, e.Message)
}

func NewCommandExecution(kind CommandExecutionKind, format string, args ...interface{}) error {
	return &CommandExecutionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IllegalArgumentKind enumerates precondition violations on the core's own
// function-call contracts (spec.md §4.2, §4.7). These are caller bugs in
// how the pipeline was composed, not bundle defects, but are still returned
// as errors rather than panicked: pipeline composition is caller-controlled
// (which splitters run, in what order), so a mis-composed pipeline is a
// reachable, recoverable condition rather than a broken internal invariant.
type IllegalArgumentKind string

const (
	AlreadyTargetedOnDimension IllegalArgumentKind = "AlreadyTargetedOnDimension"
	MixedDimensionAgnosticism  IllegalArgumentKind = "MixedDimensionAgnosticism"
)

type IllegalArgumentError struct {
	Kind    IllegalArgumentKind
	Message string
}

func (e *IllegalArgumentError) Error() string {
	return fmt.Sprintf("illegal argument [%s]: %s", e.Kind, e.Message)
}

func NewIllegalArgument(kind IllegalArgumentKind, format string, args ...interface{}) error {
	return &IllegalArgumentError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
