/*
Package stylemap maps widgets to style properties by selector rules.

A Mapping is a store of rules. Each rule consists of a selector (see package
selector), a set of style properties, a priority and, optionally, runtime
conditions. Asking a mapping for the styles of a widget will

    1. find all enabled rules whose selector matches the widget (package match)
       and whose conditions hold,
    2. merge the properties of these rules by a conflict resolution strategy
       (package resolve),
    3. cache the result by the widget's signature, if possible.

Usage:

    m := stylemap.New()
    m.AddRule("QPushButton", style.PropertyMap{"color": "black"})
    m.AddRule("#ok", style.PropertyMap{"color": "green"}, stylemap.WithPriority(stylemap.PriorityHigh))
    pmap := m.GetMapping(widget.New("ok", "QPushButton"))   // color: green

Rules are identified by index. Removing a rule leaves a tombstone in its
place, so indices handed out earlier stay valid for the lifetime of a mapping.

The engine does not apply styles; it returns property maps. Applying them to
the widgets of a toolkit is the client's business.

Concurrency

A Mapping is safe for concurrent use. Each call to GetMapping operates on a
consistent snapshot of the rule set. Event hooks are called outside of any
lock and may therefore call back into the mapping.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package stylemap

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'stylemap'.
func tracer() tracing.Trace {
	return tracing.Select("stylemap")
}
