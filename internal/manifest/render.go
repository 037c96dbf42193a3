package manifest

import (
	"fmt"
	"strings"
)

// Render produces the manifest document text from a validated spec. It is a
// pure function: identical specs render byte-identical output across calls.
// Callers must run Validate first; Render assumes a consistent spec.
func Render(spec *Spec) string {
	var b strings.Builder

	renderDocComment(&b, spec)
	b.WriteString("\n")
	renderModDecls(&b, spec)
	b.WriteString("\n")
	renderImports(&b, spec)
	renderReExports(&b, spec)
	renderFacade(&b, spec)
	renderHelpers(&b, spec)

	return b.String()
}

func renderDocComment(b *strings.Builder, spec *Spec) {
	fmt.Fprintf(b, "//! %s\n", spec.Doc)
	b.WriteString("//!\n")
	for _, sub := range spec.Submodules {
		fmt.Fprintf(b, "//! - %s: %s\n", sub.Name, sub.Summary)
	}
	if spec.TestSubmodule {
		b.WriteString("//! - tests: All test cases\n")
	}
}

func renderModDecls(b *strings.Builder, spec *Spec) {
	for _, sub := range spec.Submodules {
		fmt.Fprintf(b, "mod %s;\n", sub.Name)
	}
	if spec.TestSubmodule {
		b.WriteString("\n#[cfg(test)]\nmod tests;\n")
	}
}

// renderImports emits the consolidated import block: foundational imports
// followed by symbol imports, deduplicated with first occurrence winning.
func renderImports(b *strings.Builder, spec *Spec) {
	merged := mergeImports(spec.FoundationalImports, spec.SymbolImports)
	if len(merged) == 0 {
		return
	}
	for _, imp := range merged {
		fmt.Fprintf(b, "use %s;\n", imp)
	}
	b.WriteString("\n")
}

func mergeImports(foundational, symbols []string) []string {
	seen := make(map[string]bool, len(foundational)+len(symbols))
	merged := make([]string, 0, len(foundational)+len(symbols))
	for _, imp := range append(append([]string{}, foundational...), symbols...) {
		if imp == "" || seen[imp] {
			continue
		}
		seen[imp] = true
		merged = append(merged, imp)
	}
	return merged
}

func renderReExports(b *strings.Builder, spec *Spec) {
	if len(spec.ReExports) == 0 {
		return
	}
	for _, re := range spec.ReExports {
		if re.Visibility != "" {
			fmt.Fprintf(b, "%s use %s::{%s};\n", re.Visibility, re.From, strings.Join(re.Symbols, ", "))
		} else {
			fmt.Fprintf(b, "use %s::{%s};\n", re.From, strings.Join(re.Symbols, ", "))
		}
	}
	b.WriteString("\n")
}

func renderFacade(b *strings.Builder, spec *Spec) {
	f := &spec.Facade

	if len(f.Derives) > 0 {
		fmt.Fprintf(b, "#[derive(%s)]\n", strings.Join(f.Derives, ", "))
	}
	fmt.Fprintf(b, "pub struct %s {\n    %s: %s,\n}\n\n", f.TypeName, f.StateField, f.StateType)

	fmt.Fprintf(b, "impl %s {\n", f.TypeName)
	renderConstructor(b, f)
	for _, op := range f.Operations {
		b.WriteString("\n")
		renderOperation(b, f, &op)
	}
	b.WriteString("}\n")
}

// renderConstructor emits the facade constructor. The initialization steps
// run in a fixed order: load configuration, load persisted settings,
// construct shared state, restore the persisted work queue, start the
// background worker, return the facade.
func renderConstructor(b *strings.Builder, f *Facade) {
	b.WriteString("    pub fn new() -> Result<Self> {\n")
	for _, step := range []string{
		f.Constructor.LoadConfig,
		f.Constructor.LoadSettings,
		f.Constructor.InitState,
		f.Constructor.RestoreQueue,
		f.Constructor.SpawnWorker,
	} {
		if step == "" {
			continue
		}
		fmt.Fprintf(b, "        %s\n", step)
	}
	fmt.Fprintf(b, "        Ok(Self { %s })\n    }\n", f.StateField)
}

// renderOperation emits one pure pass-through method: arguments forwarded
// unchanged to the target submodule function, result returned unmodified.
func renderOperation(b *strings.Builder, f *Facade, op *Operation) {
	params := make([]string, 0, len(op.Params)+1)
	params = append(params, "&self")
	for _, p := range op.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}

	signature := fmt.Sprintf("pub fn %s(%s)", op.Name, strings.Join(params, ", "))
	if op.Returns != "" {
		signature += " -> " + op.Returns
	}

	args := make([]string, 0, len(op.Params)+len(op.ExtraArgs)+1)
	args = append(args, fmt.Sprintf("&self.%s", f.StateField))
	args = append(args, op.ExtraArgs...)
	for _, p := range op.Params {
		args = append(args, p.Name)
	}

	fmt.Fprintf(b, "    %s {\n        %s::%s(%s)\n    }\n",
		signature, op.Target, op.targetFn(), strings.Join(args, ", "))
}

func renderHelpers(b *strings.Builder, spec *Spec) {
	for _, helper := range spec.Helpers {
		b.WriteString("\n")
		b.WriteString(helper)
		if !strings.HasSuffix(helper, "\n") {
			b.WriteString("\n")
		}
	}
}
