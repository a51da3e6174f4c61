package pathnorm

import "strings"

const (
	mountRootPrefixConstant          = "/mnt/"
	posixSeparatorConstant           = "/"
	windowsSeparatorConstant         = `\`
	windowsDriveSuffixConstant       = ":"
	driveLetterSegmentLengthConstant = 1
)

// TranslateMountPath rewrites /mnt/<drive>/rest into <drive>:\rest.
// Paths that do not start with the mount root, or whose drive segment is not a
// single ASCII letter, are returned unchanged.
func TranslateMountPath(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, mountRootPrefixConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, mountRootPrefixConstant)
	driveSegment, tail, _ := strings.Cut(remainder, posixSeparatorConstant)
	if len(driveSegment) != driveLetterSegmentLengthConstant || !isASCIILetter(driveSegment[0]) {
		return candidatePath
	}

	translated := driveSegment + windowsDriveSuffixConstant
	if strings.HasPrefix(remainder, driveSegment+posixSeparatorConstant) {
		translated += windowsSeparatorConstant + strings.ReplaceAll(tail, posixSeparatorConstant, windowsSeparatorConstant)
	}

	return translated
}

func isASCIILetter(candidate byte) bool {
	return (candidate >= 'a' && candidate <= 'z') || (candidate >= 'A' && candidate <= 'Z')
}
