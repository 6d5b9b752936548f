package curse

import (
	"strconv"

	"github.com/wowa-cli/wowa/lib/addon"
)

// https://docs.curseforge.com/#tocS_ModAuthor
type modAuthor struct {
	Name string `json:"name"`
}

// https://docs.curseforge.com/#tocS_FileIndex
type fileIndex struct {
	GameVersion       string `json:"gameVersion"`
	FileID            int    `json:"fileId"`
	Filename          string `json:"filename"`
	ReleaseType       int    `json:"releaseType"`
	GameVersionTypeID int    `json:"gameVersionTypeId"`
}

// https://docs.curseforge.com/#tocS_Mod
type mod struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Slug               string      `json:"slug"`
	Authors            []modAuthor `json:"authors"`
	LatestFilesIndexes []fileIndex `json:"latestFilesIndexes"`
}

// https://docs.curseforge.com/#tocS_FileModule
type fileModule struct {
	Name string `json:"name"`
}

// https://docs.curseforge.com/#tocS_File
type file struct {
	ID          int          `json:"id"`
	DisplayName string       `json:"displayName"`
	FileName    string       `json:"fileName"`
	ReleaseType int          `json:"releaseType"`
	DownloadURL string       `json:"downloadUrl"`
	Modules     []fileModule `json:"modules"`
}

type searchModsResponse struct {
	Data []mod `json:"data"`
}

type modFileResponse struct {
	Data file `json:"data"`
}

// candidate converts m, keeping the newest stable file per variant.
func (m mod) candidate() addon.Candidate {
	author := "N/A"
	if len(m.Authors) > 0 {
		author = m.Authors[0].Name
	}

	c := addon.Candidate{
		ID:         m.Slug,
		ExternalID: strconv.Itoa(m.ID),
		Name:       m.Name,
		Author:     author,
		URL:        addon.CurseURL(m.Slug),
	}
	for _, variant := range addon.Variants {
		for _, fi := range m.LatestFilesIndexes {
			if fi.GameVersionTypeID == gameVersionTypes[variant] && fi.ReleaseType == releaseTypeRelease {
				c.Releases = append(c.Releases, addon.Release{Variant: variant, FileID: strconv.Itoa(fi.FileID)})
				break
			}
		}
	}
	return c
}
