package cbor

// ValidationConfig controls the limits a Validator enforces beyond basic
// structural well-formedness.
type ValidationConfig struct {
	// MaxDepth caps container nesting depth. Zero means recursionLimit.
	MaxDepth int

	// MaxContainerLength caps a single definite-length array/map header's
	// declared size (raised as Unsupported) and the accumulated sub-item
	// count of an indefinite-length array/map (raised as Overflow).
	// Zero means no limit.
	MaxContainerLength uint64

	// ProhibitUnboundedLengths rejects any indefinite-length array or map
	// (ArrayStart/MapStart) with Unsupported, per spec's deterministic-mode
	// option.
	ProhibitUnboundedLengths bool
}

// level tracks one open container's bookkeeping on the Validator's stack.
type level struct {
	isMap     bool
	expectKey bool  // only meaningful when isMap
	remaining int64 // -1 for indefinite-length containers
	count     int64 // sub-items counted so far at an indefinite-length level
}

// Validator wraps a Receiver and enforces CBOR's structural rules on the
// Event stream pushed through it: balanced Break events, map pairs closing
// on a value (never mid-key), definite-length containers closing exactly
// at their declared arity, tag/content-type pairing, and a bounded nesting
// depth. It turns "a sequence of individually well-formed Events" into "a
// well-formed CBOR data item", the same way the Parser turns "well-formed
// bytes" into well-formed Events.
type Validator struct {
	target Receiver
	cfg    ValidationConfig
	stack  []level

	// pendingMask/pendingArrayLen restrict the event immediately following
	// a Tag, per the tag's semantics (spec §4.6 "Tag semantics"). A zero
	// pendingMask means no restriction is in effect. pendingArrayLen, when
	// >= 0, additionally requires an ArrayHeader's declared Length to equal
	// it exactly (used by DecimalFraction/BigFloat, which require a
	// 2-element array).
	pendingMask     Kind
	pendingArrayLen int64
}

// NewValidator returns a Validator that forwards validated Events to
// target.
func NewValidator(target Receiver, cfg ValidationConfig) *Validator {
	return &Validator{target: target, cfg: cfg, pendingArrayLen: -1}
}

func (v *Validator) Target() Receiver { return v.target.Target() }

// Copy deep-copies both the wrapped target and the level stack, so a saved
// Validator snapshot is unaffected by further events pushed to the
// original.
func (v *Validator) Copy() Receiver {
	stack := append([]level(nil), v.stack...)
	return &Validator{
		target:          v.target.Copy(),
		cfg:             v.cfg,
		stack:           stack,
		pendingMask:     v.pendingMask,
		pendingArrayLen: v.pendingArrayLen,
	}
}

func (v *Validator) maxDepth() int {
	if v.cfg.MaxDepth > 0 {
		return v.cfg.MaxDepth
	}
	return recursionLimit
}

// tagRestriction returns the allowed-mask and (for DecimalFraction/BigFloat)
// the required ArrayHeader length the event following tag t must satisfy.
// pendingArrayLen of -1 means no length constraint.
func tagRestriction(t Tag) (mask Kind, pendingArrayLen int64) {
	switch t {
	case TagEpochDateTime:
		return KindNumber, -1
	case TagPositiveBigNum, TagNegativeBigNum, TagEmbeddedCBOR:
		return KindBytes | KindBytesStart, -1
	case TagDateTimeString, TagTextUri, TagTextBase64Url, TagTextBase64, TagTextRegex, TagTextMime:
		return KindText, -1
	case TagDecimalFraction, TagBigFloat:
		return KindArrayHeader, 2
	default:
		return 0, -1
	}
}

// OnEvent implements Receiver.
func (v *Validator) OnEvent(ev Event) error {
	// A Tag restricts the event that follows it, but a Tag event is itself
	// unrestricted by an outer tag's mask (tags may nest, the innermost one
	// winning).
	if ev.Kind == KindTag {
		v.pendingMask, v.pendingArrayLen = tagRestriction(ev.Tag)
		return v.target.OnEvent(ev)
	}

	if v.pendingMask != 0 {
		if !v.pendingMask.Has(ev.Kind) {
			return UnexpectedDataItemError{Expected: v.pendingMask, Got: ev.Kind}
		}
		if v.pendingArrayLen >= 0 && int64(ev.Length) != v.pendingArrayLen {
			return ValidationFailureError{Reason: "tagged array must have exactly 2 elements"}
		}
		v.pendingMask, v.pendingArrayLen = 0, -1
	}

	switch ev.Kind {
	case KindBreak:
		if err := v.closeIndefinite(); err != nil {
			return err
		}
	case KindSimpleValue:
		if !ev.SimpleValue.Legal() {
			return ValidationFailureError{Reason: "reserved simple value"}
		}
		if err := v.accountItem(); err != nil {
			return err
		}
	case KindPosOverLong:
		if ev.Uint>>63 == 0 {
			return ValidationFailureError{Reason: "PosOverLong value fits in a signed 64-bit slot"}
		}
		if err := v.accountItem(); err != nil {
			return err
		}
	case KindNegOverLong:
		if ev.Uint>>63 == 0 {
			return ValidationFailureError{Reason: "NegOverLong value fits in a signed 64-bit slot"}
		}
		if err := v.accountItem(); err != nil {
			return err
		}
	case KindEndOfInput:
		if !v.AtTopLevel() {
			return InsufficientInputError{Needed: 1}
		}
	default:
		// A container is counted in its parent when it closes, not here.
		if !isContainerStart(ev.Kind) {
			if err := v.accountItem(); err != nil {
				return err
			}
		}
	}

	if isContainerStart(ev.Kind) {
		if v.cfg.ProhibitUnboundedLengths && (ev.Kind == KindArrayStart || ev.Kind == KindMapStart) {
			return UnsupportedError{Reason: "indefinite-length container forbidden by configuration"}
		}
		if err := v.pushLevel(ev); err != nil {
			return err
		}
		// A zero-length definite container is complete as soon as it opens.
		if v.stack[len(v.stack)-1].remaining == 0 {
			v.stack = v.stack[:len(v.stack)-1]
			if err := v.accountItem(); err != nil {
				return err
			}
		}
	}

	return v.target.OnEvent(ev)
}

func isContainerStart(k Kind) bool {
	switch k {
	case KindArrayHeader, KindArrayStart, KindMapHeader, KindMapStart:
		return true
	default:
		return false
	}
}

func (v *Validator) pushLevel(ev Event) error {
	if len(v.stack) >= v.maxDepth() {
		return OverflowError{Reason: "maximum nesting depth exceeded"}
	}
	isMap := ev.Kind == KindMapHeader || ev.Kind == KindMapStart
	remaining := int64(-1)
	if ev.Kind == KindArrayHeader || ev.Kind == KindMapHeader {
		if v.cfg.MaxContainerLength > 0 && ev.Length > v.cfg.MaxContainerLength {
			return ErrContainerTooLarge
		}
		remaining = int64(ev.Length)
	}
	v.stack = append(v.stack, level{isMap: isMap, expectKey: isMap, remaining: remaining})
	return nil
}

// accountItem registers that one complete data item has just been
// produced (a leaf, or a container that has just closed), closing
// and cascading through any definite-length levels that item completes.
func (v *Validator) accountItem() error {
	for len(v.stack) > 0 {
		top := &v.stack[len(v.stack)-1]
		if top.isMap {
			if top.expectKey {
				top.expectKey = false
				return nil
			}
			top.expectKey = true
		}
		if top.remaining < 0 {
			// Indefinite-length level: stays open until an explicit Break.
			// Track the accumulated count against the configured cap.
			top.count++
			if v.cfg.MaxContainerLength > 0 && uint64(top.count) > v.cfg.MaxContainerLength {
				return OverflowError{Reason: "indefinite-length container exceeds configured limit"}
			}
			return nil
		}
		top.remaining--
		if top.remaining > 0 {
			return nil
		}
		if top.remaining < 0 {
			return ValidationFailureError{Reason: "container closed past its declared length"}
		}
		// This level just completed; pop it and cascade, since completing
		// it is itself one item of its parent.
		v.stack = v.stack[:len(v.stack)-1]
	}
	return nil
}

func (v *Validator) closeIndefinite() error {
	if len(v.stack) == 0 {
		return UnexpectedDataItemError{Expected: KindAllButBreak, Got: KindBreak}
	}
	top := v.stack[len(v.stack)-1]
	if top.remaining != -1 {
		return ValidationFailureError{Reason: "break inside a definite-length container"}
	}
	if top.isMap && !top.expectKey {
		return ValidationFailureError{Reason: "break in the middle of a map pair"}
	}
	v.stack = v.stack[:len(v.stack)-1]
	return v.accountItem()
}

// accountOpaqueItem registers that the caller consumed one complete data
// item of Kind k by raw byte count (Reader.Skip) rather than by re-parsing
// its internals as typed Events. It applies the same tag-restriction check
// and arity bookkeeping a typed OnEvent call would, without pushing a level
// for the item even if k is itself a container kind — Skip has already
// discarded the entire subtree, definite or not.
func (v *Validator) accountOpaqueItem(k Kind) error {
	if v.pendingMask != 0 {
		if !v.pendingMask.Has(k) {
			return UnexpectedDataItemError{Expected: v.pendingMask, Got: k}
		}
		v.pendingMask, v.pendingArrayLen = 0, -1
	}
	if k == KindBreak {
		return v.closeIndefinite()
	}
	return v.accountItem()
}

// Depth reports the current open-container nesting depth.
func (v *Validator) Depth() int { return len(v.stack) }

// AtTopLevel reports whether the Validator is not currently inside any
// open container (a complete data item has just been produced, or none
// has started yet).
func (v *Validator) AtTopLevel() bool { return len(v.stack) == 0 }
