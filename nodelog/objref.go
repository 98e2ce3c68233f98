package nodelog

import (
	"regexp"
)

// ObjectRef identifies a Kubernetes object as printed in kubelet logs, e.g.
// api.ObjectReference{Kind:"Pod", Namespace:"e2e", Name:"abc", UID:"podabc"}.
type ObjectRef struct {
	Kind      string `json:"kind,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name,omitempty"`
	UID       string `json:"uid,omitempty"`
}

// IsZero reports whether nothing is known about the object.
func (o ObjectRef) IsZero() bool {
	return o == ObjectRef{}
}

var (
	objectReference = regexp.MustCompile(`(?:api|v1)\.ObjectReference\{([^}]*)\}`)
	objectField     = regexp.MustCompile(`(\w+):"([^"]*)"`)
)

// FindObjectRefs returns the first object reference in the kubelet log that
// names the pod. The result is zero if there's none.
func FindObjectRefs(kubeletLog []byte, pod string) ObjectRef {
	if len(pod) == 0 {
		return ObjectRef{}
	}

	for _, m := range objectReference.FindAllSubmatch(kubeletLog, -1) {
		ref := ObjectRef{}

		for _, f := range objectField.FindAllSubmatch(m[1], -1) {
			value := string(f[2])

			switch string(f[1]) {
			case "Kind":
				ref.Kind = value
			case "Namespace":
				ref.Namespace = value
			case "Name":
				ref.Name = value
			case "UID":
				ref.UID = value
			}
		}

		if ref.Name == pod {
			return ref
		}
	}

	return ObjectRef{}
}
