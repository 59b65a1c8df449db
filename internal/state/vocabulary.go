// Package state holds the registry's per-object state vocabularies and the
// reconstruction of state timelines from state validity intervals.
package state

import (
	"fred/internal/object"
	fs "fred/internal/state/flagset"
)

// Flag names shared by several vocabularies, as stored in enum_object_states.name.
const (
	Linked                   = "linked"
	DeleteCandidate          = "deleteCandidate"
	ServerDeleteProhibited   = "serverDeleteProhibited"
	ServerTransferProhibited = "serverTransferProhibited"
	ServerUpdateProhibited   = "serverUpdateProhibited"
	ServerBlocked            = "serverBlocked"
)

var (
	contactVocabulary = fs.NewVocabulary(string(object.Contact),
		fs.AutomaticFlag(Linked, fs.External),
		fs.ManualFlag(ServerDeleteProhibited, fs.External),
		fs.ManualFlag(ServerTransferProhibited, fs.External),
		fs.ManualFlag(ServerUpdateProhibited, fs.External),
		fs.ManualFlag(ServerBlocked, fs.External),
		fs.AutomaticFlag(DeleteCandidate, fs.External),
		fs.ManualFlag("conditionallyIdentifiedContact", fs.External),
		fs.ManualFlag("identifiedContact", fs.External),
		fs.ManualFlag("validatedContact", fs.External),
		fs.ManualFlag("mojeidContact", fs.External),
		fs.ManualFlag("contactInManualVerification", fs.Internal),
		fs.ManualFlag("contactPassedManualVerification", fs.Internal),
		fs.ManualFlag("contactFailedManualVerification", fs.Internal),
		fs.ManualFlag("serverContactNameChangeProhibited", fs.Internal),
	)

	domainVocabulary = fs.NewVocabulary(string(object.Domain),
		fs.ManualFlag(ServerDeleteProhibited, fs.External),
		fs.ManualFlag("serverRenewProhibited", fs.External),
		fs.ManualFlag(ServerTransferProhibited, fs.External),
		fs.ManualFlag(ServerUpdateProhibited, fs.External),
		fs.ManualFlag("serverRegistrantChangeProhibited", fs.External),
		fs.ManualFlag(ServerBlocked, fs.External),
		fs.ManualFlag("serverOutzoneManual", fs.External),
		fs.ManualFlag("serverInzoneManual", fs.External),
		fs.AutomaticFlag("expirationWarning", fs.Internal),
		fs.AutomaticFlag("expired", fs.External),
		fs.AutomaticFlag("unguarded", fs.Internal),
		fs.AutomaticFlag("validationWarning1", fs.Internal),
		fs.AutomaticFlag("validationWarning2", fs.Internal),
		fs.AutomaticFlag("notValidated", fs.External),
		fs.AutomaticFlag("nssetMissing", fs.Internal),
		fs.AutomaticFlag("outzone", fs.External),
		fs.AutomaticFlag(DeleteCandidate, fs.External),
		fs.AutomaticFlag("deleteWarning", fs.Internal),
		fs.AutomaticFlag("outzoneUnguarded", fs.Internal),
		fs.AutomaticFlag("outzoneUnguardedWarning", fs.Internal),
		fs.ManualFlag("premiumDomain", fs.Internal),
	)

	nssetVocabulary = fs.NewVocabulary(string(object.Nsset),
		fs.AutomaticFlag(Linked, fs.External),
		fs.ManualFlag(ServerDeleteProhibited, fs.External),
		fs.ManualFlag(ServerTransferProhibited, fs.External),
		fs.ManualFlag(ServerUpdateProhibited, fs.External),
		fs.AutomaticFlag(DeleteCandidate, fs.External),
	)

	keysetVocabulary = fs.NewVocabulary(string(object.Keyset),
		fs.AutomaticFlag(Linked, fs.External),
		fs.ManualFlag(ServerDeleteProhibited, fs.External),
		fs.ManualFlag(ServerTransferProhibited, fs.External),
		fs.ManualFlag(ServerUpdateProhibited, fs.External),
		fs.AutomaticFlag(DeleteCandidate, fs.External),
	)

	contactStatusVocabulary = externalOf(contactVocabulary)
	domainStatusVocabulary  = externalOf(domainVocabulary)
	nssetStatusVocabulary   = externalOf(nssetVocabulary)
	keysetStatusVocabulary  = externalOf(keysetVocabulary)
)

func externalOf(v *fs.Vocabulary) *fs.Vocabulary {
	return v.Filter(v.Kind(), func(d fs.Descriptor) bool { return d.Visibility == fs.External })
}

// Tags binding flag sets to object types. Status tags cover only the flags
// registrars may observe.
type (
	ContactTag       struct{}
	DomainTag        struct{}
	NssetTag         struct{}
	KeysetTag        struct{}
	ContactStatusTag struct{}
	DomainStatusTag  struct{}
	NssetStatusTag   struct{}
	KeysetStatusTag  struct{}
)

func (ContactTag) Vocabulary() *fs.Vocabulary       { return contactVocabulary }
func (DomainTag) Vocabulary() *fs.Vocabulary        { return domainVocabulary }
func (NssetTag) Vocabulary() *fs.Vocabulary         { return nssetVocabulary }
func (KeysetTag) Vocabulary() *fs.Vocabulary        { return keysetVocabulary }
func (ContactStatusTag) Vocabulary() *fs.Vocabulary { return contactStatusVocabulary }
func (DomainStatusTag) Vocabulary() *fs.Vocabulary  { return domainStatusVocabulary }
func (NssetStatusTag) Vocabulary() *fs.Vocabulary   { return nssetStatusVocabulary }
func (KeysetStatusTag) Vocabulary() *fs.Vocabulary  { return keysetStatusVocabulary }

type (
	ContactState  = fs.Set[ContactTag]
	DomainState   = fs.Set[DomainTag]
	NssetState    = fs.Set[NssetTag]
	KeysetState   = fs.Set[KeysetTag]
	ContactStatus = fs.Set[ContactStatusTag]
	DomainStatus  = fs.Set[DomainStatusTag]
	NssetStatus   = fs.Set[NssetStatusTag]
	KeysetStatus  = fs.Set[KeysetStatusTag]
)

var (
	ContactLinked                 = fs.MustLookup[ContactTag](Linked)
	ContactDeleteCandidate        = fs.MustLookup[ContactTag](DeleteCandidate)
	ContactServerDeleteProhibited = fs.MustLookup[ContactTag](ServerDeleteProhibited)
	ContactServerUpdateProhibited = fs.MustLookup[ContactTag](ServerUpdateProhibited)
	ContactServerBlocked          = fs.MustLookup[ContactTag](ServerBlocked)
	ContactIdentified             = fs.MustLookup[ContactTag]("identifiedContact")
	ContactValidated              = fs.MustLookup[ContactTag]("validatedContact")
	ContactMojeid                 = fs.MustLookup[ContactTag]("mojeidContact")

	DomainServerDeleteProhibited   = fs.MustLookup[DomainTag](ServerDeleteProhibited)
	DomainServerTransferProhibited = fs.MustLookup[DomainTag](ServerTransferProhibited)
	DomainServerUpdateProhibited   = fs.MustLookup[DomainTag](ServerUpdateProhibited)
	DomainServerBlocked            = fs.MustLookup[DomainTag](ServerBlocked)
	DomainExpired                  = fs.MustLookup[DomainTag]("expired")
	DomainOutzone                  = fs.MustLookup[DomainTag]("outzone")
	DomainDeleteCandidate          = fs.MustLookup[DomainTag](DeleteCandidate)
	DomainOutzoneUnguardedWarning  = fs.MustLookup[DomainTag]("outzoneUnguardedWarning")

	NssetLinked          = fs.MustLookup[NssetTag](Linked)
	NssetDeleteCandidate = fs.MustLookup[NssetTag](DeleteCandidate)

	KeysetLinked          = fs.MustLookup[KeysetTag](Linked)
	KeysetDeleteCandidate = fs.MustLookup[KeysetTag](DeleteCandidate)
)

// VocabularyOf returns the state vocabulary of an object type.
func VocabularyOf(t object.Type) (*fs.Vocabulary, bool) {
	switch t {
	case object.Contact:
		return contactVocabulary, true
	case object.Domain:
		return domainVocabulary, true
	case object.Nsset:
		return nssetVocabulary, true
	case object.Keyset:
		return keysetVocabulary, true
	}
	return nil, false
}

// StatusVocabularyOf returns the externally visible subset of VocabularyOf.
func StatusVocabularyOf(t object.Type) (*fs.Vocabulary, bool) {
	switch t {
	case object.Contact:
		return contactStatusVocabulary, true
	case object.Domain:
		return domainStatusVocabulary, true
	case object.Nsset:
		return nssetStatusVocabulary, true
	case object.Keyset:
		return keysetStatusVocabulary, true
	}
	return nil, false
}

// ObjectTypeOf maps a tag to the object type of its vocabulary.
func ObjectTypeOf[T fs.Tag]() object.Type {
	var tag T
	return object.Type(tag.Vocabulary().Kind())
}
